package client

import (
	"encoding/json"
	"fmt"
)

// envelope mirrors the gateway's JSON response wrapper. Data is kept raw so
// each call site can decode into its own type.
type envelope struct {
	ErrorCode int             `json:"error_code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// APIError is a non-success response from the gateway.
type APIError struct {
	StatusCode int
	ErrorCode  int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway error %d (http %d): %s", e.ErrorCode, e.StatusCode, e.Message)
}

// Dataset is one uploaded dataset as returned by the gateway.
type Dataset struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	FileType     string          `json:"file_type"`
	SizeBytes    int64           `json:"size_bytes"`
	RowCount     *int64          `json:"row_count,omitempty"`
	ColumnInfo   json.RawMessage `json:"column_info,omitempty"`
	Status       string          `json:"status"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

// Query is one recorded question and its answer.
type Query struct {
	ID           string          `json:"id"`
	DatasetID    string          `json:"dataset_id"`
	Question     string          `json:"question"`
	SQLQuery     *string         `json:"sql_query,omitempty"`
	Answer       *string         `json:"answer,omitempty"`
	ChartSpec    json.RawMessage `json:"chart_spec,omitempty"`
	Status       string          `json:"status"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

// Paginator describes the page of a listing response.
type Paginator struct {
	Total       int64 `json:"total"`
	Count       int64 `json:"count"`
	PerPage     int64 `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// DatasetPage is one page of datasets.
type DatasetPage struct {
	Items     []Dataset `json:"items"`
	Paginator Paginator `json:"paginator"`
}

// QueryPage is one page of queries.
type QueryPage struct {
	Items     []Query   `json:"items"`
	Paginator Paginator `json:"paginator"`
}
