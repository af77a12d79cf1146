package redis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	redis_client "github.com/redis/go-redis/v9"

	"aibi-gateway/internal/notifier"
	pkgLog "aibi-gateway/pkg/log"
	pkgRedis "aibi-gateway/pkg/redis"
)

// Subscriber routes backend events from Redis Pub/Sub to the hub.
// Events are published on per-user channels matching the configured pattern,
// e.g. bi_events:{user_id}.
type Subscriber struct {
	client *pkgRedis.Client
	hub    *notifier.Hub
	l      pkgLog.Logger

	pubsub  *redis_client.PubSub
	pattern string

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	maxRetries int
	retryDelay time.Duration

	mu            sync.RWMutex
	lastMessageAt time.Time
	isActive      atomic.Bool
}

// NewSubscriber creates a subscriber listening on the given channel pattern.
func NewSubscriber(client *pkgRedis.Client, hub *notifier.Hub, l pkgLog.Logger, pattern string) *Subscriber {
	ctx, cancel := context.WithCancel(context.Background())

	return &Subscriber{
		client:     client,
		hub:        hub,
		l:          l,
		pattern:    pattern,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		maxRetries: 10,
		retryDelay: 5 * time.Second,
	}
}

// Start subscribes to the pattern and begins routing messages.
func (s *Subscriber) Start() error {
	s.pubsub = s.client.PSubscribe(s.ctx, s.pattern)
	s.isActive.Store(true)

	s.l.Infof(s.ctx, "notifier.redis: subscribed to pattern %s", s.pattern)

	go s.listen()

	return nil
}

func (s *Subscriber) listen() {
	defer close(s.done)

	ch := s.pubsub.Channel()

	for {
		select {
		case <-s.ctx.Done():
			s.l.Info(context.Background(), "notifier.redis: subscriber shutting down")
			return

		case msg, ok := <-ch:
			if !ok {
				s.l.Error(s.ctx, "notifier.redis: pub/sub channel closed, reconnecting")
				if err := s.reconnect(); err != nil {
					s.l.Errorf(s.ctx, "notifier.redis: reconnect failed: %v", err)
					s.isActive.Store(false)
					return
				}
				ch = s.pubsub.Channel()
				continue
			}

			s.handleMessage(msg.Channel, msg.Payload)
		}
	}
}

func (s *Subscriber) handleMessage(channel string, payload string) {
	s.mu.Lock()
	s.lastMessageAt = time.Now()
	s.mu.Unlock()

	// Channel format: {pattern-prefix}:{user_id}
	idx := strings.LastIndex(channel, ":")
	if idx < 0 || idx == len(channel)-1 {
		s.l.Warnf(s.ctx, "notifier.redis: invalid channel format: %s", channel)
		return
	}
	userID := channel[idx+1:]

	msg, err := notifier.FromJSON([]byte(payload))
	if err != nil {
		s.l.Errorf(s.ctx, "notifier.redis: failed to unmarshal event: %v", err)
		return
	}
	if err := msg.Validate(); err != nil {
		s.l.Warnf(s.ctx, "notifier.redis: dropping event without type on %s", channel)
		return
	}

	if err := s.hub.SendToUser(userID, msg); err != nil {
		s.l.Warnf(s.ctx, "notifier.redis: could not route %s event to user %s: %v", msg.Type, userID, err)
		return
	}

	s.l.Debugf(s.ctx, "notifier.redis: routed %s event to user %s", msg.Type, userID)
}

func (s *Subscriber) reconnect() error {
	for i := 0; i < s.maxRetries; i++ {
		s.l.Infof(s.ctx, "notifier.redis: reconnecting (attempt %d/%d)", i+1, s.maxRetries)

		if s.pubsub != nil {
			s.pubsub.Close()
		}

		s.pubsub = s.client.PSubscribe(s.ctx, s.pattern)

		if _, err := s.pubsub.Receive(s.ctx); err == nil {
			s.l.Info(s.ctx, "notifier.redis: reconnected")
			return nil
		}

		time.Sleep(s.retryDelay)
	}

	return fmt.Errorf("failed to reconnect after %d attempts", s.maxRetries)
}

// GetHealthInfo returns the subscriber's health state.
func (s *Subscriber) GetHealthInfo() (active bool, lastMessageAt time.Time, pattern string) {
	s.mu.RLock()
	lastMsg := s.lastMessageAt
	s.mu.RUnlock()

	return s.isActive.Load(), lastMsg, s.pattern
}

// Shutdown gracefully stops the subscriber.
func (s *Subscriber) Shutdown(ctx context.Context) error {
	s.isActive.Store(false)
	s.cancel()

	if s.pubsub != nil {
		if err := s.pubsub.Close(); err != nil {
			s.l.Errorf(context.Background(), "notifier.redis: error closing pub/sub: %v", err)
		}
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
