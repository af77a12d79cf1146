// Package client is a small REST wrapper for the gateway's HTTP API. It is
// used by the watcher command and by external tooling that drives the
// gateway programmatically.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client makes REST calls to the gateway.
type Client struct {
	baseURL string
	userID  string
	client  *http.Client
}

// New creates a client targeting the given base URL (e.g. "http://127.0.0.1:8000").
// All requests are scoped to userID; pass "" to act as the default user.
func New(baseURL, userID string) *Client {
	return &Client{
		baseURL: baseURL,
		userID:  userID,
		client:  &http.Client{Timeout: 3 * time.Minute},
	}
}

// Health fetches /health.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

// UploadDataset sends POST /api/v1/data/upload as multipart form data.
func (c *Client) UploadDataset(ctx context.Context, fileName string, r io.Reader) (*Dataset, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/data/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	c.setScope(req)

	var ds Dataset
	if err := c.do(req, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// ListDatasets fetches /api/v1/data/datasets.
func (c *Client) ListDatasets(ctx context.Context, page, limit int) (*DatasetPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out DatasetPage
	if err := c.get(ctx, "/api/v1/data/datasets?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDataset fetches /api/v1/data/datasets/{id}.
func (c *Client) GetDataset(ctx context.Context, id string) (*Dataset, error) {
	var ds Dataset
	if err := c.get(ctx, "/api/v1/data/datasets/"+id, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// DeleteDataset sends DELETE /api/v1/data/datasets/{id}.
func (c *Client) DeleteDataset(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/v1/data/datasets/"+id, nil)
	if err != nil {
		return err
	}
	c.setScope(req)
	return c.do(req, nil)
}

// Ask sends POST /api/v1/query/ask and blocks until the engine answers.
func (c *Client) Ask(ctx context.Context, datasetID, question string) (*Query, error) {
	body := map[string]string{"dataset_id": datasetID, "question": question}
	var out Query
	if err := c.post(ctx, "/api/v1/query/ask", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryHistory fetches /api/v1/query/history.
func (c *Client) QueryHistory(ctx context.Context, datasetID string, page, limit int) (*QueryPage, error) {
	q := url.Values{}
	if datasetID != "" {
		q.Set("dataset_id", datasetID)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out QueryPage
	if err := c.get(ctx, "/api/v1/query/history?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setScope(req)
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setScope(req)
	return c.do(req, out)
}

// do executes the request and unwraps the gateway's response envelope into out.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%s %s: %d: %w", req.Method, req.URL.Path, resp.StatusCode, err)
	}

	if resp.StatusCode >= 300 || envelope.ErrorCode != 0 {
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorCode:  envelope.ErrorCode,
			Message:    envelope.Message,
		}
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

func (c *Client) setScope(req *http.Request) {
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}
}
