package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Hub fans inbox events out to the open connections of a workspace.
type Hub struct {
	// a user may hold several connections (tabs, reconnects)
	clients map[int64]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	WorkspaceID int64
	UserID      int64
	Conn        *websocket.Conn
	mu          sync.Mutex // serializes writes
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.WorkspaceID] == nil {
		h.clients[client.WorkspaceID] = make(map[*Client]struct{})
	}
	h.clients[client.WorkspaceID][client] = struct{}{}

	log.Debug().
		Int64("workspace_id", client.WorkspaceID).
		Int64("user_id", client.UserID).
		Int("workspace_conns", len(h.clients[client.WorkspaceID])).
		Msg("websocket connected")
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[client.WorkspaceID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.clients, client.WorkspaceID)
		}
	}
	log.Debug().Int64("workspace_id", client.WorkspaceID).Int64("user_id", client.UserID).Msg("websocket disconnected")
}

// SendToWorkspace writes msg to every connection of the workspace. Write
// failures are logged and skipped.
func (h *Hub) SendToWorkspace(workspaceID int64, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	conns, ok := h.clients[workspaceID]
	if !ok {
		h.mu.RUnlock()
		return nil
	}
	// copy so writes happen without the hub lock
	clients := make([]*Client, 0, len(conns))
	for c := range conns {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		err := c.Conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			log.Warn().Err(err).Int64("workspace_id", workspaceID).Int64("user_id", c.UserID).Msg("websocket write failed")
		}
	}
	return nil
}

func (h *Hub) IsWatched(workspaceID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns, ok := h.clients[workspaceID]
	return ok && len(conns) > 0
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}
