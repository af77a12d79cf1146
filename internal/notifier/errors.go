package notifier

import "errors"

var (
	ErrInvalidMessage = errors.New("invalid message")
	ErrHubClosed      = errors.New("hub is shut down")
)
