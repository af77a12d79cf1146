package channel

import "time"

// State is the lifecycle state of a channel session.
type State string

const (
	// StateDisconnected is the initial state and the result of a normal close.
	StateDisconnected State = "disconnected"
	// StateConnecting means a dial is in flight.
	StateConnecting State = "connecting"
	// StateConnected means the session is established and frames flow.
	StateConnected State = "connected"
	// StateReconnecting means an abnormal close occurred and a retry is pending.
	StateReconnecting State = "reconnecting"
	// StateFailed means the reconnect budget is exhausted. Only an explicit
	// Connect call leaves this state.
	StateFailed State = "failed"
)

const (
	// DefaultTargetID scopes the session when the caller has no identifier.
	DefaultTargetID = "default_user"
	// DefaultMaxReconnectAttempts bounds automatic reconnection per session.
	DefaultMaxReconnectAttempts = 5
	// DefaultReconnectDelay is the fixed wait between reconnect attempts.
	DefaultReconnectDelay = 3 * time.Second
	// DefaultHandshakeTimeout bounds a single dial attempt.
	DefaultHandshakeTimeout = 10 * time.Second

	// MessageTypeConnectionEstablished is the server's session confirmation.
	// Its payload carries the server-assigned connection id.
	MessageTypeConnectionEstablished = "connection_established"

	writeWait = 10 * time.Second
)
