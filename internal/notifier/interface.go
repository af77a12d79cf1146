package notifier

import "context"

// EventPublisher emits status events addressed to one user. The production
// implementation publishes to Redis; tests use a mock.
//
//go:generate mockery --name EventPublisher
type EventPublisher interface {
	PublishToUser(ctx context.Context, userID string, msg *Message) error
}
