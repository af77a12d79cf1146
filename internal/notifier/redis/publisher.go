package redis

import (
	"context"
	"strings"

	"aibi-gateway/internal/notifier"
	pkgLog "aibi-gateway/pkg/log"
	pkgRedis "aibi-gateway/pkg/redis"
)

// Publisher emits status events onto per-user Redis channels. Usecases use
// it instead of talking to the hub directly, so events reach every gateway
// replica's subscriber.
type Publisher struct {
	client *pkgRedis.Client
	l      pkgLog.Logger

	// prefix is the channel pattern without the trailing wildcard,
	// e.g. "bi_events:" for the pattern "bi_events:*".
	prefix string
}

// NewPublisher creates a publisher for the given subscription pattern.
func NewPublisher(client *pkgRedis.Client, l pkgLog.Logger, pattern string) *Publisher {
	return &Publisher{
		client: client,
		l:      l,
		prefix: strings.TrimSuffix(pattern, "*"),
	}
}

// PublishToUser publishes one event on the user's channel.
func (p *Publisher) PublishToUser(ctx context.Context, userID string, msg *notifier.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	data, err := msg.ToJSON()
	if err != nil {
		return err
	}

	channel := p.prefix + userID
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		p.l.Errorf(ctx, "notifier.redis: publish to %s failed: %v", channel, err)
		return err
	}

	p.l.Debugf(ctx, "notifier.redis: published %s event to %s", msg.Type, channel)
	return nil
}
