package notifier

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	pkgLog "aibi-gateway/pkg/log"
)

// Hub maintains the set of active connections and routes messages to them.
// A user may hold several connections at once (multiple tabs).
type Hub struct {
	connections map[string][]*Connection
	mu          sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage

	totalMessagesSent   atomic.Int64
	totalMessagesFailed atomic.Int64

	maxConnections int

	l pkgLog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a hub bounded at maxConnections concurrent sessions.
func NewHub(l pkgLog.Logger, maxConnections int) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		connections:    make(map[string][]*Connection),
		register:       make(chan *Connection, 100),
		unregister:     make(chan *Connection, 100),
		broadcast:      make(chan *BroadcastMessage, 1000),
		maxConnections: maxConnections,
		l:              l,
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
	}
}

// Run starts the hub's main loop. It returns after Shutdown.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.l.Info(context.Background(), "notifier: hub shutting down")
			h.closeAllConnections()
			return

		case conn := <-h.register:
			h.registerConnection(conn)

		case conn := <-h.unregister:
			h.unregisterConnection(conn)

		case msg := <-h.broadcast:
			h.broadcastToUser(msg)
		}
	}
}

func (h *Hub) registerConnection(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.totalConnectionsLocked() >= h.maxConnections {
		h.l.Warnf(context.Background(), "notifier: max connections reached, rejecting user %s", conn.userID)
		go conn.Close()
		return
	}

	h.connections[conn.userID] = append(h.connections[conn.userID], conn)

	h.l.Infof(context.Background(), "notifier: user %s connected (connection %s, user connections: %d)",
		conn.userID, conn.id, len(h.connections[conn.userID]))
}

func (h *Hub) unregisterConnection(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	connections, exists := h.connections[conn.userID]
	if !exists {
		return
	}

	for i, c := range connections {
		if c == conn {
			h.connections[conn.userID] = append(connections[:i], connections[i+1:]...)
			close(conn.send)

			if len(h.connections[conn.userID]) == 0 {
				delete(h.connections, conn.userID)
			}

			h.l.Infof(context.Background(), "notifier: user %s connection %s closed", conn.userID, conn.id)
			break
		}
	}
}

func (h *Hub) broadcastToUser(msg *BroadcastMessage) {
	h.mu.RLock()
	connections := h.connections[msg.UserID]
	h.mu.RUnlock()

	// A disconnected user simply misses the event; progress state is
	// recoverable through the REST API.
	if len(connections) == 0 {
		return
	}

	data, err := msg.Message.ToJSON()
	if err != nil {
		h.l.Errorf(context.Background(), "notifier: failed to marshal message: %v", err)
		h.totalMessagesFailed.Add(1)
		return
	}

	for _, conn := range connections {
		select {
		case conn.send <- data:
			h.totalMessagesSent.Add(1)
		default:
			h.l.Warnf(context.Background(), "notifier: send buffer full for user %s, dropping message", msg.UserID)
			h.totalMessagesFailed.Add(1)
		}
	}
}

// SendToUser queues a message for every connection of the given user.
// It returns ErrHubClosed once the hub has been shut down.
func (h *Hub) SendToUser(userID string, message *Message) error {
	select {
	case h.broadcast <- &BroadcastMessage{UserID: userID, Message: message}:
		return nil
	case <-h.ctx.Done():
		h.totalMessagesFailed.Add(1)
		return ErrHubClosed
	case <-time.After(time.Second):
		h.l.Warnf(context.Background(), "notifier: timeout queueing message for user %s", userID)
		h.totalMessagesFailed.Add(1)
		return nil
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, connections := range h.connections {
		for _, conn := range connections {
			conn.Close()
		}
	}

	h.connections = make(map[string][]*Connection)
}

// Stats is a point-in-time view of hub activity, served on /ws/status.
type Stats struct {
	ActiveConnections   int   `json:"active_connections"`
	ActiveUsers         int   `json:"active_users"`
	TotalMessagesSent   int64 `json:"total_messages_sent"`
	TotalMessagesFailed int64 `json:"total_messages_failed"`
}

// GetStats returns hub statistics.
func (h *Hub) GetStats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return Stats{
		ActiveConnections:   h.totalConnectionsLocked(),
		ActiveUsers:         len(h.connections),
		TotalMessagesSent:   h.totalMessagesSent.Load(),
		TotalMessagesFailed: h.totalMessagesFailed.Load(),
	}
}

func (h *Hub) totalConnectionsLocked() int {
	total := 0
	for _, connections := range h.connections {
		total += len(connections)
	}
	return total
}

// Shutdown stops the hub and closes every connection.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.cancel()

	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
