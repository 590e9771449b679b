package ws

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// newTestServer registers every upgraded connection under the workspace
// given in the ws query parameter.
func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		wsID, _ := strconv.ParseInt(r.URL.Query().Get("ws"), 10, 64)
		client := &Client{WorkspaceID: wsID, UserID: 1, Conn: conn}
		hub.Register(client)
		defer hub.Unregister(client)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func dial(t *testing.T, server *httptest.Server, workspaceID int64) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?ws=" + strconv.FormatInt(workspaceID, 10)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 10*time.Millisecond)
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub.clients)
	assert.Equal(t, 0, hub.ConnectionCount())
	assert.False(t, hub.IsWatched(1))
}

func TestHub_SendToWorkspace_NoClients(t *testing.T) {
	hub := NewHub()

	err := hub.SendToWorkspace(123, &Message{Type: "test"})
	assert.NoError(t, err)
}

func TestHub_SendToWorkspace_MarshalError(t *testing.T) {
	hub := NewHub()

	err := hub.SendToWorkspace(1, &Message{Type: "bad", Data: make(chan int)})
	assert.Error(t, err)
}

func TestHub_SendToWorkspace(t *testing.T) {
	hub := NewHub()
	server := newTestServer(t, hub)
	defer server.Close()

	a1 := dial(t, server, 10)
	defer a1.Close()
	a2 := dial(t, server, 10)
	defer a2.Close()
	other := dial(t, server, 20)
	defer other.Close()

	waitFor(t, func() bool { return hub.ConnectionCount() == 3 })
	assert.True(t, hub.IsWatched(10))
	assert.True(t, hub.IsWatched(20))

	err := hub.SendToWorkspace(10, &Message{
		Type: "message.received",
		Data: map[string]string{"text": "hello"},
	})
	require.NoError(t, err)

	for _, conn := range []*websocket.Conn{a1, a2} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, received, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(received), "message.received")
		assert.Contains(t, string(received), "hello")
	}

	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "other workspaces must not receive the event")
}

func TestHub_UnregisterOnClose(t *testing.T) {
	hub := NewHub()
	server := newTestServer(t, hub)
	defer server.Close()

	conn := dial(t, server, 30)
	waitFor(t, func() bool { return hub.IsWatched(30) })

	conn.Close()
	waitFor(t, func() bool { return !hub.IsWatched(30) })
	assert.Equal(t, 0, hub.ConnectionCount())
}
