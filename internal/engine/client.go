package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"aibi-gateway/config"
	pkgLog "aibi-gateway/pkg/log"
)

const defaultTimeout = 120 * time.Second

// Client talks to the analysis engine over its HTTP API.
type Client struct {
	l       pkgLog.Logger
	baseURL string
	model   string
	client  *http.Client
}

var _ Engine = &Client{}

// NewClient creates a client targeting the configured engine base URL.
func NewClient(l pkgLog.Logger, cfg config.EngineConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		l:       l,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: health returned %d", ErrEngineUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *Client) ProcessDataset(ctx context.Context, ip ProcessDatasetInput) error {
	return c.post(ctx, "/api/v1/process", ip, nil)
}

func (c *Client) Ask(ctx context.Context, ip AskInput) (AskOutput, error) {
	body := struct {
		AskInput
		Model string `json:"model,omitempty"`
	}{AskInput: ip, Model: c.model}

	var out AskOutput
	if err := c.post(ctx, "/api/v1/ask", body, &out); err != nil {
		return AskOutput{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.l.Errorf(ctx, "internal.engine.post: %s: %v", path, err)
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.l.Errorf(ctx, "internal.engine.post: %s: %d %s", path, resp.StatusCode, string(respBody))
		return fmt.Errorf("%w: POST %s: %d", ErrEngineRejected, path, resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
