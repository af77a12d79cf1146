package repository

import (
	"encoding/json"
	"errors"

	"aibi-gateway/internal/model"
	"aibi-gateway/pkg/paginator"
)

// ErrNotFound is returned when no dataset matches.
var ErrNotFound = errors.New("not found")

// CreateOptions contains options for creating a dataset.
type CreateOptions struct {
	Dataset model.Dataset
}

// GetOptions contains options for paginated dataset listing.
type GetOptions struct {
	PaginateQuery paginator.PaginateQuery
}

// UpdateStatusOptions records a processing outcome. Nil fields are left
// untouched.
type UpdateStatusOptions struct {
	ID           string
	Status       string
	RowCount     *int64
	ColumnInfo   json.RawMessage
	ErrorMessage *string
}
