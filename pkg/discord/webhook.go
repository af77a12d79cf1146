package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	webhookBaseURL = "https://discord.com/api/webhooks"

	// MaxMessageLength is the Discord content length limit.
	MaxMessageLength = 2000

	defaultTimeout    = 10 * time.Second
	defaultRetryCount = 2
	defaultRetryDelay = time.Second
)

// WebhookPayload is the request body for Discord webhook calls.
type WebhookPayload struct {
	Content  string `json:"content,omitempty"`
	Username string `json:"username,omitempty"`
}

// sendWithRetry sends a request with retry mechanism.
func (d *Discord) sendWithRetry(ctx context.Context, payload *WebhookPayload) error {
	var lastErr error

	for attempt := 0; attempt <= defaultRetryCount; attempt++ {
		if attempt > 0 {
			if d.l != nil {
				d.l.Infof(ctx, "pkg.discord.webhook.sendWithRetry: retrying attempt %d/%d", attempt, defaultRetryCount)
			}
			time.Sleep(defaultRetryDelay)
		}

		err := d.sendRequest(ctx, payload)
		if err == nil {
			return nil
		}

		lastErr = err
		if d.l != nil {
			d.l.Warnf(ctx, "pkg.discord.webhook.sendWithRetry: attempt %d failed: %v", attempt+1, err)
		}
	}

	return fmt.Errorf("failed after %d attempts, last error: %w", defaultRetryCount+1, lastErr)
}

// sendRequest sends a request to Discord webhook.
func (d *Discord) sendRequest(ctx context.Context, payload *WebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", d.GetWebhookURL(), bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "AIBI-Bot/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("discord webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
