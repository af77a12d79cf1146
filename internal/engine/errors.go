package engine

import "errors"

var (
	ErrEngineUnavailable = errors.New("analysis engine unavailable")
	ErrEngineRejected    = errors.New("analysis engine rejected the request")
)
