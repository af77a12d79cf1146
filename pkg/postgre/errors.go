package postgres

import "errors"

var (
	// ErrInvalidUUID indicates the given string is not a valid UUID.
	ErrInvalidUUID = errors.New("invalid UUID format")
)
