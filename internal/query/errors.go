package query

import "errors"

var (
	ErrQueryNotFound   = errors.New("query not found")
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrDatasetNotReady = errors.New("dataset is not ready for querying")
	ErrEmptyQuestion   = errors.New("question must not be empty")
)
