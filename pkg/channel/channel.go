// Package channel maintains a persistent WebSocket session to the backend
// notification endpoint. It exposes connection state and the most recent
// inbound message, and reconnects with a bounded retry count after
// unexpected disconnects. All failures surface as state changes or
// callbacks, never as panics across the package boundary.
package channel

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"aibi-gateway/pkg/log"
)

// Channel is a reconnecting client for the backend notification endpoint.
// One instance owns exactly one connection handle at a time.
type Channel struct {
	cfg       Config
	l         log.Logger
	callbacks Callbacks

	mu      sync.Mutex
	writeMu sync.Mutex // serialises all conn writes

	state        State
	conn         *websocket.Conn
	targetID     string
	endpoint     string
	connectionID string
	lastMessage  *Notification
	attempts     int
	retryTimer   *time.Timer

	// gen is the session epoch. Connect and Disconnect bump it so that
	// late events from a superseded session are ignored.
	gen uint64

	// manualGen marks a session torn down by Disconnect. Its read loop
	// fires OnDisconnect(nil), keeping all callbacks for a session on the
	// same goroutine.
	manualGen    uint64
	manualClosed bool
}

// New creates a channel. It does not dial; call Connect to open the session.
func New(cfg Config, l log.Logger, cb Callbacks) *Channel {
	cfg.applyDefaults()
	return &Channel{
		cfg:       cfg,
		l:         l,
		callbacks: cb,
		state:     StateDisconnected,
	}
}

// Connect opens a new session scoped to targetID and returns immediately.
// An empty targetID falls back to DefaultTargetID. Progress is observed via
// State and the callbacks. Calling Connect while already connecting or
// connected is a no-op.
func (c *Channel) Connect(targetID string) {
	if targetID == "" {
		targetID = DefaultTargetID
	}

	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateConnected {
		c.mu.Unlock()
		return
	}
	c.stopRetryTimerLocked()
	c.gen++
	gen := c.gen
	c.targetID = targetID
	c.endpoint = endpointURL(c.cfg.Host, targetID)
	c.attempts = 0
	c.state = StateConnecting
	c.mu.Unlock()

	go c.dial(gen)
}

// Send serializes payload as JSON and transmits it. Outside the connected
// state it logs a warning and returns ErrNotConnected without transmitting.
func (c *Channel) Send(payload any) error {
	c.mu.Lock()
	state := c.state
	conn := c.conn
	c.mu.Unlock()

	if state != StateConnected || conn == nil {
		c.l.Warnf(context.Background(), "channel: send skipped, session is %s", state)
		return ErrNotConnected
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Disconnect tears the session down: it cancels any pending reconnect timer,
// closes the connection with a normal-closure code, and resets the state to
// disconnected. When a session was live, its read loop delivers
// OnDisconnect(nil), so the callback never overlaps an in-flight OnMessage.
// Safe to call repeatedly and when never connected.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	prev := c.gen
	c.gen++
	c.stopRetryTimerLocked()
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.attempts = 0
	c.connectionID = ""
	if conn != nil {
		c.manualGen = prev
		c.manualClosed = true
	}
	c.mu.Unlock()

	if conn == nil {
		return
	}

	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
	c.writeMu.Unlock()
	_ = conn.Close()
}

// State returns the current session state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ConnectionID returns the server-assigned connection identifier, or an
// empty string before the confirmation message arrives.
func (c *Channel) ConnectionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectionID
}

// LastMessage returns the most recently received notification, or nil.
func (c *Channel) LastMessage() *Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastMessage
}

// ReconnectAttempts returns the number of automatic reconnects spent in the
// current session. It resets to zero on every successful open.
func (c *Channel) ReconnectAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

func endpointURL(host, targetID string) string {
	u := url.URL{
		Scheme:   "ws",
		Host:     host,
		Path:     "/api/v1/ws",
		RawQuery: "user_id=" + url.QueryEscape(targetID),
	}
	return u.String()
}

func (c *Channel) dial(gen uint64) {
	c.mu.Lock()
	endpoint := c.endpoint
	c.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, resp, err := dialer.Dial(endpoint, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		c.mu.Unlock()
		c.l.Warnf(context.Background(), "channel: dial %s failed: %v", endpoint, err)
		c.fireError(err)
		c.scheduleReconnect(gen)
		return
	}

	c.conn = conn
	c.state = StateConnected
	c.attempts = 0
	cb := c.callbacks.OnConnect
	c.mu.Unlock()

	c.l.Infof(context.Background(), "channel: connected to %s", endpoint)
	if cb != nil {
		cb()
	}

	go c.readLoop(gen, conn)
}

func (c *Channel) readLoop(gen uint64, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			_ = conn.Close()

			c.mu.Lock()
			if gen != c.gen {
				// Superseded by Disconnect or a newer Connect. A manual
				// Disconnect hands the nil-error callback to this loop.
				manual := c.manualClosed && c.manualGen == gen
				if manual {
					c.manualClosed = false
				}
				cb := c.callbacks.OnDisconnect
				c.mu.Unlock()
				if manual && cb != nil {
					cb(nil)
				}
				return
			}
			c.conn = nil
			cb := c.callbacks.OnDisconnect
			c.mu.Unlock()

			if cb != nil {
				cb(err)
			}

			if isNormalClose(err) {
				c.mu.Lock()
				if gen == c.gen {
					c.state = StateDisconnected
				}
				c.mu.Unlock()
				c.l.Infof(context.Background(), "channel: session closed normally")
				return
			}

			c.l.Warnf(context.Background(), "channel: session closed abnormally: %v", err)
			c.scheduleReconnect(gen)
			return
		}

		c.handleFrame(data)
	}
}

func (c *Channel) handleFrame(data []byte) {
	var env struct {
		Type         string `json:"type"`
		ConnectionID string `json:"connection_id"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		c.l.Warnf(context.Background(), "channel: dropping malformed frame: %v", err)
		return
	}

	n := Notification{
		Type:         env.Type,
		ConnectionID: env.ConnectionID,
		Raw:          append(json.RawMessage(nil), data...),
	}

	c.mu.Lock()
	if env.Type == MessageTypeConnectionEstablished && env.ConnectionID != "" {
		c.connectionID = env.ConnectionID
	}
	c.lastMessage = &n
	cb := c.callbacks.OnMessage
	c.mu.Unlock()

	if cb != nil {
		cb(n)
	}
}

// scheduleReconnect arms the retry timer, or marks the session failed when
// the budget is spent. Caller must not hold c.mu.
func (c *Channel) scheduleReconnect(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	if c.attempts >= c.cfg.MaxReconnectAttempts {
		c.state = StateFailed
		c.mu.Unlock()
		c.l.Errorf(context.Background(), "channel: giving up after %d reconnect attempts", c.cfg.MaxReconnectAttempts)
		c.fireError(ErrReconnectBudgetExhausted)
		return
	}

	c.attempts++
	attempt := c.attempts
	c.state = StateReconnecting
	c.stopRetryTimerLocked()
	c.retryTimer = time.AfterFunc(c.cfg.ReconnectDelay, func() {
		c.mu.Lock()
		if gen != c.gen || c.state != StateReconnecting {
			c.mu.Unlock()
			return
		}
		c.state = StateConnecting
		c.mu.Unlock()
		c.dial(gen)
	})
	c.mu.Unlock()

	c.l.Warnf(context.Background(), "channel: reconnect attempt %d/%d in %v",
		attempt, c.cfg.MaxReconnectAttempts, c.cfg.ReconnectDelay)
}

func (c *Channel) stopRetryTimerLocked() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}

func (c *Channel) fireError(err error) {
	c.mu.Lock()
	cb := c.callbacks.OnError
	c.mu.Unlock()
	if cb != nil {
		cb(err)
	}
}

func isNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
