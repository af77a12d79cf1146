package errors

import (
	"fmt"
	"strings"
)

// NewValidationError creates a new validation error.
func NewValidationError(code int, field string, messages ...string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Messages: messages}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, strings.Join(e.Messages, ", "))
}

// NewValidationErrorCollector creates a new validation error collector.
func NewValidationErrorCollector() *ValidationErrorCollector {
	return &ValidationErrorCollector{errors: make([]*ValidationError, 0)}
}

func (c *ValidationErrorCollector) Add(err *ValidationError) *ValidationErrorCollector {
	c.errors = append(c.errors, err)
	return c
}

func (c *ValidationErrorCollector) HasError() bool {
	return len(c.errors) > 0
}

func (c *ValidationErrorCollector) Errors() []*ValidationError {
	return c.errors
}

func (c *ValidationErrorCollector) Error() string {
	var msgs []string
	for _, err := range c.errors {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, ", ")
}

// NewHTTPError returns a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message, StatusCode: code}
}

// NewNotFoundHTTPError returns a 404 Not Found error.
func NewNotFoundHTTPError(message string) *HTTPError {
	if message == "" {
		message = MessageNotFound
	}
	return &HTTPError{
		Code:       404,
		Message:    message,
		StatusCode: StatusNotFound,
	}
}

// NewBadRequestHTTPError returns a 400 Bad Request error.
func NewBadRequestHTTPError(message string) *HTTPError {
	if message == "" {
		message = MessageBadRequest
	}
	return &HTTPError{
		Code:       400,
		Message:    message,
		StatusCode: StatusBadRequest,
	}
}

func (e *HTTPError) Error() string {
	return e.Message
}
