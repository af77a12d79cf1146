package notifier

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"aibi-gateway/config"
	pkgLog "aibi-gateway/pkg/log"
)

// defaultUserID scopes sessions whose client supplied no identifier.
const defaultUserID = "default_user"

// Handler upgrades HTTP requests into status channel sessions.
type Handler struct {
	hub      *Hub
	l        pkgLog.Logger
	cfg      config.WebSocketConfig
	upgrader websocket.Upgrader
}

// NewHandler creates a WebSocket handler backed by the given hub.
func NewHandler(hub *Hub, l pkgLog.Logger, cfg config.WebSocketConfig) *Handler {
	return &Handler{
		hub: hub,
		l:   l,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			// The gateway serves a local single-user deployment.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket godoc
// @Summary      Open a realtime status channel session
// @Tags         websocket
// @Param        user_id  query  string  false  "User id the session is scoped to"
// @Router       /api/v1/ws [get]
func (h *Handler) HandleWebSocket(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		userID = defaultUserID
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.l.Errorf(context.Background(), "notifier: failed to upgrade connection: %v", err)
		return
	}

	connectionID := uuid.NewString()
	connection := NewConnection(h.hub, conn, connectionID, userID, ConnConfig{
		PongWait:       h.cfg.PongWait,
		PingPeriod:     h.cfg.PingInterval,
		WriteWait:      h.cfg.WriteWait,
		MaxMessageSize: h.cfg.MaxMessageSize,
	}, h.l)

	// Confirm the session before the hub learns about the connection. Once
	// registered, an immediate client close can drive unregister, which
	// closes the send channel; queueing first keeps this handler off a
	// closed channel. The buffer is fresh, so the enqueue cannot block and
	// the confirmation is always the first frame out.
	confirmation := &Message{
		Type:         MessageTypeConnectionEstablished,
		ConnectionID: connectionID,
		Timestamp:    time.Now(),
	}
	if data, err := confirmation.ToJSON(); err == nil {
		connection.send <- data
	} else {
		h.l.Errorf(context.Background(), "notifier: failed to marshal confirmation for user %s: %v", userID, err)
	}

	h.hub.register <- connection
	connection.Start()

	h.l.Infof(context.Background(), "notifier: session established for user %s (connection %s)", userID, connectionID)
}

// Status godoc
// @Summary      Report active realtime connections
// @Tags         websocket
// @Produce      json
// @Success      200  {object}  notifier.Stats
// @Router       /api/v1/ws/status [get]
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.hub.GetStats())
}
