package channel

import (
	"encoding/json"
	"time"

	"github.com/friendsofgo/errors"
)

var (
	// ErrNotConnected is returned by Send when the session is not connected.
	// It is advisory; the payload is skipped, never transmitted partially.
	ErrNotConnected = errors.New("channel: not connected")
	// ErrReconnectBudgetExhausted is surfaced via OnError when the maximum
	// number of automatic reconnect attempts has been spent.
	ErrReconnectBudgetExhausted = errors.New("channel: reconnect budget exhausted")
)

// Config holds the channel connection settings.
type Config struct {
	// Host is the backend notification host, e.g. "localhost:8000".
	Host string

	// MaxReconnectAttempts bounds automatic reconnection per session.
	// Zero means DefaultMaxReconnectAttempts.
	MaxReconnectAttempts int

	// ReconnectDelay is the fixed wait between attempts.
	// Zero means DefaultReconnectDelay.
	ReconnectDelay time.Duration

	// HandshakeTimeout bounds a single dial attempt.
	// Zero means DefaultHandshakeTimeout.
	HandshakeTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.MaxReconnectAttempts <= 0 {
		c.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = DefaultReconnectDelay
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = DefaultHandshakeTimeout
	}
}

// Callbacks are optional hooks invoked from channel goroutines. Within one
// session they never run concurrently: OnConnect, OnMessage and
// OnDisconnect are delivered in order on the session's goroutine, including
// the OnDisconnect that follows a manual Disconnect. Nil fields are
// skipped. Implementations must not block.
type Callbacks struct {
	OnConnect    func()
	OnDisconnect func(err error)
	OnError      func(err error)
	OnMessage    func(n Notification)
}

// Notification is one inbound frame, decoded just far enough to read the
// type discriminator. ConnectionID is set only for the confirmation type.
// Raw holds the full frame for consumers that understand the other types.
type Notification struct {
	Type         string          `json:"type"`
	ConnectionID string          `json:"connection_id,omitempty"`
	Raw          json.RawMessage `json:"-"`
}

// Decode unmarshals the full frame into v.
func (n Notification) Decode(v any) error {
	return json.Unmarshal(n.Raw, v)
}
