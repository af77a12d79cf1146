package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestUploadDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/data/upload", r.URL.Path)
		assert.Equal(t, "alice", r.Header.Get("X-User-ID"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "sales.csv", header.Filename)

		respond(t, w, http.StatusOK, map[string]any{
			"error_code": 0,
			"message":    "Success",
			"data":       map[string]any{"id": "ds-1", "name": "sales.csv", "status": "processing"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "alice")
	ds, err := c.UploadDataset(context.Background(), "sales.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "ds-1", ds.ID)
	assert.Equal(t, "processing", ds.Status)
}

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/query/ask", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ds-1", body["dataset_id"])
		assert.Equal(t, "total revenue", body["question"])

		respond(t, w, http.StatusOK, map[string]any{
			"error_code": 0,
			"message":    "Success",
			"data": map[string]any{
				"id": "q-1", "dataset_id": "ds-1", "status": "completed", "answer": "42",
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "alice")
	q, err := c.Ask(context.Background(), "ds-1", "total revenue")
	require.NoError(t, err)
	assert.Equal(t, "completed", q.Status)
	require.NotNil(t, q.Answer)
	assert.Equal(t, "42", *q.Answer)
}

func TestErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusNotFound, map[string]any{
			"error_code": 404,
			"message":    "Dataset not found",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.GetDataset(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Dataset not found", apiErr.Message)
}

func TestListDatasetsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		respond(t, w, http.StatusOK, map[string]any{
			"error_code": 0,
			"message":    "Success",
			"data": map[string]any{
				"items":     []map[string]any{{"id": "ds-1"}},
				"paginator": map[string]any{"total": 11, "count": 1, "per_page": 10, "current_page": 2},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	page, err := c.ListDatasets(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.EqualValues(t, 11, page.Paginator.Total)
}
