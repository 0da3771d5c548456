package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(status string) *RunReport {
	start := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	return &RunReport{
		RunID:      "run-123",
		Workflow:   "ci-cd",
		Status:     status,
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Jobs: []JobResult{
			{ID: "run-tests", Status: status},
		},
	}
}

func TestSlackNotifier(t *testing.T) {
	t.Run("posts summary", func(t *testing.T) {
		var got slackMessage
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(body, &got))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		n := NewSlackNotifier(srv.URL)
		err := n.NotifyRun(context.Background(), sampleReport(StatusSuccess))
		require.NoError(t, err)

		assert.Contains(t, got.Text, "ci-cd")
		assert.Contains(t, got.Text, "run-123")
		assert.Contains(t, got.Text, StatusSuccess)
	})

	t.Run("failure status uses failure icon", func(t *testing.T) {
		var got slackMessage
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, &got)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		n := NewSlackNotifier(srv.URL)
		err := n.NotifyRun(context.Background(), sampleReport(StatusFailure))
		require.NoError(t, err)
		assert.Contains(t, got.Text, ":x:")
	})

	t.Run("non-200 response is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		n := NewSlackNotifier(srv.URL)
		err := n.NotifyRun(context.Background(), sampleReport(StatusSuccess))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("empty webhook url", func(t *testing.T) {
		n := NewSlackNotifier("")
		err := n.NotifyRun(context.Background(), sampleReport(StatusSuccess))
		require.Error(t, err)
	})
}

func TestRenderDeployer(t *testing.T) {
	t.Run("triggers deploy with bearer auth", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/services/srv-42/deploys", r.URL.Path)
			assert.Equal(t, "Bearer rnd_key", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(Deploy{ID: "dep-1", Status: "created"})
		}))
		defer srv.Close()

		d := NewRenderDeployer(srv.URL, "srv-42", "rnd_key")
		dep, err := d.Trigger(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "dep-1", dep.ID)
		assert.Equal(t, "created", dep.Status)
	})

	t.Run("api error surfaces status and body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"invalid key"}`)
		}))
		defer srv.Close()

		d := NewRenderDeployer(srv.URL, "srv-42", "bad")
		_, err := d.Trigger(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
		assert.Contains(t, err.Error(), "invalid key")
	})

	t.Run("missing configuration", func(t *testing.T) {
		_, err := NewRenderDeployer("", "", "key").Trigger(context.Background())
		require.Error(t, err)

		_, err = NewRenderDeployer("", "srv-42", "").Trigger(context.Background())
		require.Error(t, err)
	})
}
