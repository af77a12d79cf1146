package notifier

import (
	"encoding/json"
	"time"
)

// MessageType discriminates the messages pushed over the status channel.
type MessageType string

const (
	// MessageTypeConnectionEstablished confirms a new session and carries
	// the server-assigned connection id.
	MessageTypeConnectionEstablished MessageType = "connection_established"
	// MessageTypeDataProcessingUpdate reports upload processing progress.
	MessageTypeDataProcessingUpdate MessageType = "data_processing_update"
	// MessageTypeQueryUpdate reports query execution progress.
	MessageTypeQueryUpdate MessageType = "query_update"
	// MessageTypeMessageReceived acknowledges an inbound client frame.
	MessageTypeMessageReceived MessageType = "message_received"
	// MessageTypeError reports a server-side failure tied to the session.
	MessageTypeError MessageType = "error"
)

// Message is one frame pushed to a client. The type discriminator and the
// connection id live at the top level so thin clients can route on them
// without understanding the payload.
type Message struct {
	Type         MessageType     `json:"type"`
	ConnectionID string          `json:"connection_id,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// ProcessingUpdatePayload is the payload of a data_processing_update message.
type ProcessingUpdatePayload struct {
	DatasetID string `json:"dataset_id"`
	Status    string `json:"status"`
	RowCount  *int64 `json:"row_count,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MessageReceivedPayload echoes an inbound client frame back in a
// message_received acknowledgement.
type MessageReceivedPayload struct {
	OriginalMessage string `json:"original_message"`
}

// QueryUpdatePayload is the payload of a query_update message.
type QueryUpdatePayload struct {
	QueryID   string `json:"query_id"`
	DatasetID string `json:"dataset_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// NewMessage creates a message with the given type and payload.
func NewMessage(msgType MessageType, payload any) (*Message, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}

	return &Message{
		Type:      msgType,
		Payload:   raw,
		Timestamp: time.Now(),
	}, nil
}

// ToJSON converts the message to JSON bytes.
func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON parses a message from JSON bytes.
func FromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Validate checks the message structure.
func (m *Message) Validate() error {
	if m.Type == "" {
		return ErrInvalidMessage
	}
	return nil
}

// BroadcastMessage targets a message at a single user's connections.
type BroadcastMessage struct {
	UserID  string
	Message *Message
}
