package model

import (
	"encoding/json"
	"time"
)

// Query execution statuses.
const (
	QueryStatusPending   = "pending"
	QueryStatusRunning   = "running"
	QueryStatusCompleted = "completed"
	QueryStatusFailed    = "failed"
)

// Query represents one natural-language question asked against a dataset
// and the answer produced by the analysis engine.
type Query struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	DatasetID    string          `json:"dataset_id"`
	Question     string          `json:"question"`
	SQLQuery     *string         `json:"sql_query,omitempty"`
	Answer       *string         `json:"answer,omitempty"`
	ChartSpec    json.RawMessage `json:"chart_spec,omitempty"`
	Status       string          `json:"status"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
