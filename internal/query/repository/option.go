package repository

import (
	"encoding/json"
	"errors"

	"aibi-gateway/internal/model"
	"aibi-gateway/pkg/paginator"
)

// ErrNotFound is returned when no query matches.
var ErrNotFound = errors.New("not found")

// CreateOptions contains options for recording a query.
type CreateOptions struct {
	Query model.Query
}

// GetOptions contains options for paginated query history. DatasetID narrows
// the history to one dataset when set.
type GetOptions struct {
	PaginateQuery paginator.PaginateQuery
	DatasetID     string
}

// UpdateResultOptions records an execution outcome. Nil fields are left
// untouched.
type UpdateResultOptions struct {
	ID           string
	Status       string
	SQLQuery     *string
	Answer       *string
	ChartSpec    json.RawMessage
	ErrorMessage *string
}
