package notifier

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aibi-gateway/config"
	"aibi-gateway/pkg/log"
)

func testLogger() log.Logger {
	return log.Init(log.ZapConfig{
		Level:    log.LevelDebug,
		Mode:     log.ModeDevelopment,
		Encoding: log.EncodingConsole,
	})
}

func testWSConfig() config.WebSocketConfig {
	return config.WebSocketConfig{
		PingInterval:    30 * time.Second,
		PongWait:        60 * time.Second,
		WriteWait:       5 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		MaxConnections:  10,
	}
}

// startTestServer brings up a hub plus handler on an httptest server and
// returns the ws:// base URL.
func startTestServer(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(testLogger(), testWSConfig().MaxConnections)
	go hub.Run()

	handler := NewHandler(hub, testLogger(), testWSConfig())

	router := gin.New()
	router.GET("/api/v1/ws", handler.HandleWebSocket)
	router.GET("/api/v1/ws/status", handler.Status)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
	})

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialSession(t *testing.T, baseURL, userID string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(baseURL+"/api/v1/ws?user_id="+userID, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	msg, err := FromJSON(data)
	require.NoError(t, err)
	return msg
}

func TestSessionConfirmation(t *testing.T) {
	_, baseURL := startTestServer(t)

	conn := dialSession(t, baseURL, "alice")
	msg := readMessage(t, conn)

	assert.Equal(t, MessageTypeConnectionEstablished, msg.Type)
	assert.NotEmpty(t, msg.ConnectionID)
}

func TestSendToUserDelivers(t *testing.T) {
	hub, baseURL := startTestServer(t)

	conn := dialSession(t, baseURL, "alice")
	_ = readMessage(t, conn) // confirmation

	require.Eventually(t, func() bool {
		return hub.GetStats().ActiveConnections == 1
	}, 2*time.Second, 10*time.Millisecond)

	update, err := NewMessage(MessageTypeDataProcessingUpdate, ProcessingUpdatePayload{
		DatasetID: "ds-1",
		Status:    "ready",
	})
	require.NoError(t, err)

	require.NoError(t, hub.SendToUser("alice", update))

	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeDataProcessingUpdate, msg.Type)

	var payload ProcessingUpdatePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "ds-1", payload.DatasetID)
}

func TestSendToOtherUserNotDelivered(t *testing.T) {
	hub, baseURL := startTestServer(t)

	conn := dialSession(t, baseURL, "alice")
	_ = readMessage(t, conn) // confirmation

	update, err := NewMessage(MessageTypeQueryUpdate, QueryUpdatePayload{QueryID: "q-1", Status: "running"})
	require.NoError(t, err)
	require.NoError(t, hub.SendToUser("bob", update))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "no frame should arrive for another user")
}

func TestMissingUserIDFallsBack(t *testing.T) {
	hub, baseURL := startTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(baseURL+"/api/v1/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = readMessage(t, conn) // confirmation

	require.Eventually(t, func() bool {
		return hub.GetStats().ActiveConnections == 1
	}, 2*time.Second, 10*time.Millisecond)

	update, err := NewMessage(MessageTypeError, map[string]string{"message": "boom"})
	require.NoError(t, err)
	require.NoError(t, hub.SendToUser(defaultUserID, update))

	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeError, msg.Type)
}

func TestImmediateCloseLeavesHubUsable(t *testing.T) {
	hub, baseURL := startTestServer(t)

	// Sessions torn down right after the upgrade must not disturb the
	// handler or the hub, even while it races the unregister path.
	for i := 0; i < 20; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(baseURL+"/api/v1/ws?user_id=alice", nil)
		require.NoError(t, err)
		conn.Close()
	}

	require.Eventually(t, func() bool {
		return hub.GetStats().ActiveConnections == 0
	}, 2*time.Second, 10*time.Millisecond)

	// A fresh session still gets the confirmation as its first frame.
	conn := dialSession(t, baseURL, "alice")
	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeConnectionEstablished, msg.Type)
}

func TestSendToUserAfterShutdown(t *testing.T) {
	hub := NewHub(testLogger(), testWSConfig().MaxConnections)
	go hub.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, hub.Shutdown(ctx))

	update, err := NewMessage(MessageTypeError, map[string]string{"message": "boom"})
	require.NoError(t, err)
	assert.ErrorIs(t, hub.SendToUser("alice", update), ErrHubClosed)
}

func TestInboundFrameAcknowledged(t *testing.T) {
	_, baseURL := startTestServer(t)

	conn := dialSession(t, baseURL, "alice")
	_ = readMessage(t, conn) // confirmation

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping from client")))

	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeMessageReceived, msg.Type)

	var payload MessageReceivedPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "ping from client", payload.OriginalMessage)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestHubStats(t *testing.T) {
	hub, baseURL := startTestServer(t)

	conn := dialSession(t, baseURL, "alice")
	_ = readMessage(t, conn)

	require.Eventually(t, func() bool {
		stats := hub.GetStats()
		return stats.ActiveConnections == 1 && stats.ActiveUsers == 1
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return hub.GetStats().ActiveConnections == 0
	}, 2*time.Second, 10*time.Millisecond)
}
