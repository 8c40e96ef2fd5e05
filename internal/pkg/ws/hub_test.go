package ws

import (
	"net/http"
	"net/http/httptest"
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

// newTestServer 每个连接以 ?user= 注册，直到客户端断开
func newTestServer(t *testing.T, hub *Hub) (*httptest.Server, string) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		client := &Client{UserID: r.URL.Query().Get("user"), Conn: conn}
		hub.Register(client)
		defer func() {
			hub.Unregister(client)
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	return server, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, wsURL, user string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?user="+user, nil)
	require.NoError(t, err)
	return conn
}

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)

	assert.NotNil(t, hub)
	assert.Equal(t, 0, hub.ConnectionCount())
	assert.False(t, hub.IsOnline("alice"))
}

func TestHub_SendToUser_UserNotOnline(t *testing.T) {
	hub := NewHub(nil)

	err := hub.SendToUser("alice", &Message{Type: "test", Data: map[string]string{"key": "value"}})
	assert.NoError(t, err)
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub(nil)
	_, wsURL := newTestServer(t, hub)

	conn := dial(t, wsURL, "alice")

	require.Eventually(t, func() bool { return hub.IsOnline("alice") }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.ConnectionCount())

	conn.Close()

	require.Eventually(t, func() bool { return !hub.IsOnline("alice") }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_SendToUser_AllConnections(t *testing.T) {
	hub := NewHub(nil)
	_, wsURL := newTestServer(t, hub)

	conn1 := dial(t, wsURL, "alice")
	defer conn1.Close()
	conn2 := dial(t, wsURL, "alice")
	defer conn2.Close()
	other := dial(t, wsURL, "bob")
	defer other.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 3 }, time.Second, 10*time.Millisecond)

	err := hub.SendToUser("alice", &Message{Type: "access_decision", Data: map[string]string{"endpoint": "read"}})
	require.NoError(t, err)

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, received, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(received), "access_decision")
		assert.Contains(t, string(received), "read")
	}

	// bob 不应收到
	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestHub_MultipleUsers(t *testing.T) {
	hub := NewHub(nil)
	_, wsURL := newTestServer(t, hub)

	for _, user := range []string{"u1", "u2", "u3"} {
		conn := dial(t, wsURL, user)
		defer conn.Close()
	}

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 3 }, time.Second, 10*time.Millisecond)
	assert.True(t, hub.IsOnline("u1"))
	assert.True(t, hub.IsOnline("u2"))
	assert.True(t, hub.IsOnline("u3"))
	assert.False(t, hub.IsOnline("u4"))
}
