// internal/embedding/client_test.go
package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "talentmatch-workers/internal/common/errors"
	"talentmatch-workers/internal/common/logger"
)

func TestEmbedSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req struct {
			Model string `json:"model"`
			Input string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "embed-small-384", req.Model)
		assert.Equal(t, "python developer", req.Input)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float64{0.1, 0.2, 0.3},
			"model":     req.Model,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "embed-small-384", 3, time.Second, 0, logger.NewTestLogger(t))

	vec, err := c.Embed(context.Background(), "python developer")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, 3, c.Dimensions())
	assert.Equal(t, "embed-small-384", c.ModelID())
}

func TestEmbedRetriesThenSucceeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float64{1, 2},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m", 2, time.Second, 2, logger.NewTestLogger(t))

	vec, err := c.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, vec)
	assert.Equal(t, 2, calls)
}

func TestEmbedExhaustedRetriesReturnsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "broken", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m", 2, time.Second, 1, logger.NewTestLogger(t))

	_, err := c.Embed(context.Background(), "text")
	require.Error(t, err)

	var stdErr *commonErrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonErrors.ErrCodeEmbeddingFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestEmbedDimensionalityMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float64{1, 2, 3, 4},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m", 2, time.Second, 0, logger.NewTestLogger(t))

	_, err := c.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Embedding provider error")
}

func TestEmbedCancelledContextIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m", 2, time.Second, 3, logger.NewTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Embed(ctx, "text")
	require.Error(t, err)

	var stdErr *commonErrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonErrors.ErrCodeEmbeddingTimeout, stdErr.Code)
}
