package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/inboop/inboop_server/internal/api/middleware"
	"github.com/inboop/inboop_server/internal/pkg/jwt"
	"github.com/inboop/inboop_server/internal/pkg/ws"
	"github.com/inboop/inboop_server/internal/service"
)

type WebSocketHandler struct {
	hub       *ws.Hub
	members   middleware.MembershipChecker
	jwtSecret string
	upgrader  websocket.Upgrader
}

// NewWebSocketHandler only accepts browser origins from allowedOrigins.
// Requests without an Origin header (native clients) are let through.
func NewWebSocketHandler(hub *ws.Hub, members middleware.MembershipChecker, jwtSecret string, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		hub:       hub,
		members:   members,
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin] || allowed["*"]
			},
		},
	}
}

// Handle subscribes the caller to a workspace's inbox events.
// GET /api/v1/ws?token=xxx&workspace_id=1
func (h *WebSocketHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	claims, err := jwt.ParseToken(token, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	workspaceID, err := strconv.ParseInt(c.Query("workspace_id"), 10, 64)
	if err != nil || workspaceID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace_id"})
		return
	}
	if _, err := h.members.Membership(workspaceID, claims.UserID); err != nil {
		if errors.Is(err, service.ErrNotMember) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Int64("workspace_id", workspaceID).Msg("membership lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &ws.Client{
		WorkspaceID: workspaceID,
		UserID:      claims.UserID,
		Conn:        conn,
	}
	h.hub.Register(client)

	// reads only detect the close
	go func() {
		defer conn.Close()
		defer h.hub.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
