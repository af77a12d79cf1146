package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aibi-gateway/config"
	"aibi-gateway/pkg/log"
)

func testLogger() log.Logger {
	return log.Init(log.ZapConfig{
		Level:    log.LevelDebug,
		Mode:     log.ModeDevelopment,
		Encoding: log.EncodingConsole,
	})
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(testLogger(), config.EngineConfig{
		BaseURL: srv.URL,
		Model:   "llama3",
		Timeout: 5 * time.Second,
	})
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "healthy", status: http.StatusOK, wantErr: false},
		{name: "unavailable", status: http.StatusServiceUnavailable, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/health", r.URL.Path)
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			err := newTestClient(srv).Health(context.Background())
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrEngineUnavailable)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessDataset(t *testing.T) {
	var got ProcessDatasetInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/process", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := newTestClient(srv).ProcessDataset(context.Background(), ProcessDatasetInput{
		DatasetID: "ds-1",
		UserID:    "alice",
		ObjectKey: "alice/ds-1.csv",
		FileType:  "csv",
	})
	require.NoError(t, err)
	assert.Equal(t, "ds-1", got.DatasetID)
	assert.Equal(t, "alice/ds-1.csv", got.ObjectKey)
}

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/ask", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3", body["model"])
		assert.Equal(t, "total sales by month", body["question"])

		json.NewEncoder(w).Encode(AskOutput{
			Answer:   "Sales grew 12% month over month.",
			SQLQuery: "SELECT month, SUM(sales) FROM t GROUP BY month",
		})
	}))
	defer srv.Close()

	out, err := newTestClient(srv).Ask(context.Background(), AskInput{
		QueryID:   "q-1",
		DatasetID: "ds-1",
		UserID:    "alice",
		Question:  "total sales by month",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sales grew 12% month over month.", out.Answer)
	assert.Contains(t, out.SQLQuery, "GROUP BY month")
}

func TestAskEngineRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad dataset", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Ask(context.Background(), AskInput{Question: "q"})
	assert.ErrorIs(t, err, ErrEngineRejected)
}
