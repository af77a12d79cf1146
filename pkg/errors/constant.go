package errors

import "net/http"

const (
	// HTTP status codes for predefined errors
	StatusBadRequest = http.StatusBadRequest // 400
	StatusNotFound   = http.StatusNotFound   // 404
)

const (
	// MessageBadRequest is the default message for 400.
	MessageBadRequest = "Bad Request"
	// MessageNotFound is the default message for 404.
	MessageNotFound = "Not Found"
)
