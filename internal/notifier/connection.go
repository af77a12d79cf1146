package notifier

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	pkgLog "aibi-gateway/pkg/log"
)

// Connection represents one WebSocket session for a user.
type Connection struct {
	hub  *Hub
	conn *websocket.Conn

	// id is the server-assigned connection identifier sent to the client
	// in the confirmation message.
	id     string
	userID string

	// Buffered channel of outbound frames.
	send chan []byte

	pongWait       time.Duration
	pingPeriod     time.Duration
	writeWait      time.Duration
	maxMessageSize int64

	l pkgLog.Logger

	done chan struct{}
}

// NewConnection creates a Connection around an upgraded socket.
func NewConnection(
	hub *Hub,
	conn *websocket.Conn,
	id string,
	userID string,
	cfg ConnConfig,
	l pkgLog.Logger,
) *Connection {
	return &Connection{
		hub:            hub,
		conn:           conn,
		id:             id,
		userID:         userID,
		send:           make(chan []byte, 256),
		pongWait:       cfg.PongWait,
		pingPeriod:     cfg.PingPeriod,
		writeWait:      cfg.WriteWait,
		maxMessageSize: cfg.MaxMessageSize,
		l:              l,
		done:           make(chan struct{}),
	}
}

// ConnConfig holds per-connection transport settings.
type ConnConfig struct {
	PongWait       time.Duration
	PingPeriod     time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

// readPump pumps frames from the socket. There is at most one reader per
// connection; all reads happen in this goroutine.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})
	c.conn.SetReadLimit(c.maxMessageSize)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.l.Errorf(context.Background(), "notifier: read error for user %s: %v", c.userID, err)
			}
			break
		}

		// The gateway pushes status only; inbound frames carry no commands.
		// Each one is acknowledged with a message_received echo so clients
		// can verify the channel is alive.
		c.l.Debugf(context.Background(), "notifier: frame from user %s: %s", c.userID, string(message))
		c.ack(message)
	}
}

// ack queues a message_received echo for an inbound frame. The send channel
// stays open for the lifetime of readPump, since only this connection's
// unregister closes it. A full buffer drops the ack.
func (c *Connection) ack(message []byte) {
	ackMsg, err := NewMessage(MessageTypeMessageReceived, MessageReceivedPayload{
		OriginalMessage: string(message),
	})
	if err != nil {
		return
	}

	data, err := ackMsg.ToJSON()
	if err != nil {
		return
	}

	select {
	case c.send <- data:
	default:
		c.l.Warnf(context.Background(), "notifier: send buffer full for user %s, dropping ack", c.userID)
	}
}

// writePump pumps frames from the hub to the socket. There is at most one
// writer per connection; all writes happen in this goroutine.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))

			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// Start starts the connection's read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection.
func (c *Connection) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
		c.conn.Close()
	}
}
