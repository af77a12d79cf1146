package response

import (
	"aibi-gateway/pkg/errors"
)

// Resp is the envelope for all JSON API responses.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

// ErrorMapping maps domain errors to HTTP errors for delivery handlers.
type ErrorMapping map[error]*errors.HTTPError
