package model

import (
	"encoding/json"
	"time"
)

// Dataset processing statuses.
const (
	DatasetStatusUploaded   = "uploaded"
	DatasetStatusProcessing = "processing"
	DatasetStatusReady      = "ready"
	DatasetStatusFailed     = "failed"
)

// Dataset represents one uploaded tabular file and its processing state.
type Dataset struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Name         string          `json:"name"`
	ObjectKey    string          `json:"object_key"`
	FileType     string          `json:"file_type"`
	SizeBytes    int64           `json:"size_bytes"`
	RowCount     *int64          `json:"row_count,omitempty"`
	ColumnInfo   json.RawMessage `json:"column_info,omitempty"`
	Status       string          `json:"status"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty"`
}

// IsTerminal reports whether processing has finished, successfully or not.
func (d Dataset) IsTerminal() bool {
	return d.Status == DatasetStatusReady || d.Status == DatasetStatusFailed
}
