package channel

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aibi-gateway/pkg/log"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func testLogger() log.Logger {
	return log.Init(log.ZapConfig{
		Level:    log.LevelDebug,
		Mode:     log.ModeDevelopment,
		Encoding: log.EncodingConsole,
	})
}

func testConfig(srv *httptest.Server) Config {
	return Config{
		Host:                 strings.TrimPrefix(srv.URL, "http://"),
		MaxReconnectAttempts: 3,
		ReconnectDelay:       100 * time.Millisecond,
	}
}

func waitForState(t *testing.T, c *Channel, want State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.State() == want
	}, 3*time.Second, 10*time.Millisecond, "expected state %s, got %s", want, c.State())
}

func TestNormalCloseEndsDisconnected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		require.NoError(t, conn.WriteJSON(map[string]string{"type": "data_processing_update", "status": "running"}))
		require.NoError(t, conn.WriteJSON(map[string]string{"type": "data_processing_update", "status": "completed"}))

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done")
		require.NoError(t, conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)))
		conn.Close()
	}))
	defer srv.Close()

	received := make(chan Notification, 8)
	c := New(testConfig(srv), testLogger(), Callbacks{
		OnMessage: func(n Notification) { received <- n },
	})
	defer c.Disconnect()

	c.Connect("alice")
	waitForState(t, c, StateDisconnected)

	assert.Equal(t, 0, c.ReconnectAttempts())
	assert.Len(t, received, 2)

	last := c.LastMessage()
	require.NotNil(t, last)
	assert.Equal(t, "data_processing_update", last.Type)
}

func TestAbnormalClosesExhaustBudget(t *testing.T) {
	var upgrades atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		upgrades.Add(1)
		// Drop the connection without a close frame.
		conn.Close()
	}))
	defer srv.Close()

	var terminal atomic.Bool
	c := New(testConfig(srv), testLogger(), Callbacks{
		OnError: func(err error) {
			if err == ErrReconnectBudgetExhausted {
				terminal.Store(true)
			}
		},
	})
	defer c.Disconnect()

	c.Connect("bob")
	waitForState(t, c, StateFailed)

	// Initial connection plus exactly three reconnect attempts.
	assert.Equal(t, int32(4), upgrades.Load())
	assert.True(t, terminal.Load())

	// No further attempts after the budget is spent.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(4), upgrades.Load())
	assert.Equal(t, StateFailed, c.State())
}

func TestSuccessfulOpenResetsCounter(t *testing.T) {
	var upgrades atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		if upgrades.Add(1) <= 2 {
			conn.Close()
			return
		}

		// Third attempt succeeds and stays open.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c := New(testConfig(srv), testLogger(), Callbacks{})
	defer c.Disconnect()

	c.Connect("carol")
	waitForState(t, c, StateConnected)

	assert.Equal(t, 0, c.ReconnectAttempts())
	assert.GreaterOrEqual(t, upgrades.Load(), int32(3))
}

func TestSendWhileDisconnected(t *testing.T) {
	c := New(Config{Host: "localhost:1"}, testLogger(), Callbacks{})

	err := c.Send(map[string]int{"ping": 1})
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Equal(t, StateDisconnected, c.State())
}

func TestDoubleDisconnectNeverConnected(t *testing.T) {
	c := New(Config{Host: "localhost:1"}, testLogger(), Callbacks{})

	assert.NotPanics(t, func() {
		c.Disconnect()
		c.Disconnect()
	})
	assert.Equal(t, StateDisconnected, c.State())
}

func TestManualDisconnectNotifiesOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	var disconnects atomic.Int32
	var lastErr atomic.Value
	c := New(testConfig(srv), testLogger(), Callbacks{
		OnDisconnect: func(err error) {
			disconnects.Add(1)
			if err != nil {
				lastErr.Store(err)
			}
		},
	})

	c.Connect("dave")
	waitForState(t, c, StateConnected)

	c.Disconnect()
	assert.Equal(t, StateDisconnected, c.State())

	// The session goroutine delivers the callback, with a nil error and
	// exactly once.
	require.Eventually(t, func() bool {
		return disconnects.Load() == 1
	}, 3*time.Second, 10*time.Millisecond)
	assert.Nil(t, lastErr.Load())

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), disconnects.Load())
	assert.Equal(t, StateDisconnected, c.State())
}

func TestConnectionEstablishedExtractsID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		require.NoError(t, conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"type":"connection_established","connection_id":"xyz"}`)))

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	received := make(chan Notification, 1)
	c := New(testConfig(srv), testLogger(), Callbacks{
		OnMessage: func(n Notification) { received <- n },
	})
	defer c.Disconnect()

	c.Connect("dave")

	select {
	case n := <-received:
		assert.Equal(t, MessageTypeConnectionEstablished, n.Type)
		assert.Equal(t, "xyz", n.ConnectionID)
		assert.JSONEq(t, `{"type":"connection_established","connection_id":"xyz"}`, string(n.Raw))
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for confirmation message")
	}

	assert.Equal(t, "xyz", c.ConnectionID())
}

func TestMalformedFrameDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("this is not json")))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"query_update"}`)))

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	received := make(chan Notification, 2)
	c := New(testConfig(srv), testLogger(), Callbacks{
		OnMessage: func(n Notification) { received <- n },
	})
	defer c.Disconnect()

	c.Connect("erin")

	select {
	case n := <-received:
		// Only the valid frame is delivered; the garbage one is dropped.
		assert.Equal(t, "query_update", n.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for valid message")
	}

	assert.Len(t, received, 0)
	require.NotNil(t, c.LastMessage())
	assert.Equal(t, "query_update", c.LastMessage().Type)
}

func TestSendEncodesJSON(t *testing.T) {
	frames := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		_, data, err := conn.ReadMessage()
		if err == nil {
			frames <- data
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c := New(testConfig(srv), testLogger(), Callbacks{})
	defer c.Disconnect()

	c.Connect("frank")
	waitForState(t, c, StateConnected)

	require.NoError(t, c.Send(map[string]int{"ping": 1}))

	select {
	case data := <-frames:
		want, err := json.Marshal(map[string]int{"ping": 1})
		require.NoError(t, err)
		assert.Equal(t, string(want), string(data))
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for transmitted frame")
	}
}

func TestConnectScopesURLToTarget(t *testing.T) {
	gotUser := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser <- r.URL.Query().Get("user_id")
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		assert.Equal(t, "/api/v1/ws", r.URL.Path)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c := New(testConfig(srv), testLogger(), Callbacks{})
	defer c.Disconnect()

	c.Connect("")
	waitForState(t, c, StateConnected)

	select {
	case user := <-gotUser:
		assert.Equal(t, DefaultTargetID, user)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for handshake")
	}
}
