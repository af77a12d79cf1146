package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"aibi-gateway/pkg/log"
)

// IDiscord is the interface for sending webhook messages to Discord.
type IDiscord interface {
	SendMessage(ctx context.Context, content string) error
	ReportBug(ctx context.Context, message string) error
	GetWebhookURL() string
	Close() error
}

// DiscordWebhook contains webhook information for Discord API.
type DiscordWebhook struct {
	ID    string
	Token string
}

// Discord is the Discord service implementation for sending webhook messages.
type Discord struct {
	l       log.Logger
	webhook *DiscordWebhook
	client  *http.Client
}

// New creates a new Discord service instance with the provided logger and webhook.
// Logger can be nil, but logging will be skipped if not provided.
func New(l log.Logger, webhook *DiscordWebhook) (*Discord, error) {
	if webhook == nil {
		return nil, errors.New("webhook is required")
	}
	if webhook.ID == "" || webhook.Token == "" {
		return nil, errors.New("webhook ID and token are required")
	}

	client := &http.Client{
		Timeout: defaultTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}

	return &Discord{
		l:       l,
		webhook: webhook,
		client:  client,
	}, nil
}

// GetWebhookURL returns the full Discord webhook URL.
func (d *Discord) GetWebhookURL() string {
	return fmt.Sprintf("%s/%s/%s", webhookBaseURL, d.webhook.ID, d.webhook.Token)
}

// SendMessage sends a plain text message to the configured webhook.
func (d *Discord) SendMessage(ctx context.Context, content string) error {
	if err := d.validateMessageLength(content); err != nil {
		return err
	}
	return d.sendWithRetry(ctx, &WebhookPayload{Content: content})
}

// ReportBug sends a bug report message, prefixed so it is easy to filter.
func (d *Discord) ReportBug(ctx context.Context, message string) error {
	content := message
	if !strings.HasPrefix(content, "```") {
		content = fmt.Sprintf("```\n%s\n```", content)
	}
	if err := d.validateMessageLength(content); err != nil {
		return err
	}
	return d.sendWithRetry(ctx, &WebhookPayload{Content: content})
}

// Close releases the underlying HTTP client resources.
func (d *Discord) Close() error {
	d.client.CloseIdleConnections()
	return nil
}

func (d *Discord) validateMessageLength(content string) error {
	if len(content) > MaxMessageLength {
		return fmt.Errorf("message too long: %d characters (max: %d)", len(content), MaxMessageLength)
	}
	return nil
}
