// internal/embedding/client.go

// Package embedding implements the HTTP embedding provider used for
// semantic similarity.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	commonErrors "talentmatch-workers/internal/common/errors"
	commonhttp "talentmatch-workers/internal/common/http"
	"talentmatch-workers/internal/common/logger"
)

// Client calls the embedding service. It satisfies the similarity provider
// contract: deterministic vectors of a fixed dimensionality per model
// version.
type Client struct {
	baseURL    string
	modelID    string
	dimensions int
	maxRetries int
	httpClient *commonhttp.Client
	logger     logger.Logger
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
	Model     string    `json:"model"`
}

// NewClient creates an embedding client.
func NewClient(baseURL, modelID string, dimensions int, timeout time.Duration, maxRetries int, log logger.Logger) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		baseURL:    baseURL,
		modelID:    modelID,
		dimensions: dimensions,
		maxRetries: maxRetries,
		httpClient: commonhttp.NewClient(timeout),
		logger:     log,
	}
}

// Dimensions returns the fixed vector length of the configured model.
func (c *Client) Dimensions() int { return c.dimensions }

// ModelID returns the embedding model identifier stamped into audit records.
func (c *Client) ModelID() string { return c.modelID }

// Embed returns the embedding vector for the text. Transient failures are
// retried with backoff up to the configured limit.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, commonErrors.NewEmbeddingTimeoutError()
			}
			c.logger.Warn("retrying embedding call", map[string]interface{}{
				"attempt": attempt,
				"error":   lastErr.Error(),
			})
		}

		vec, err := c.embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, commonErrors.NewEmbeddingTimeoutError()
		}
	}
	return nil, commonErrors.NewEmbeddingFailedError(lastErr)
}

func (c *Client) embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(embedRequest{Model: c.modelID, Input: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embedding service returned %d: %s", resp.StatusCode, string(payload))
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	if len(parsed.Embedding) != c.dimensions {
		return nil, fmt.Errorf("embedding dimensionality mismatch: expected %d, got %d",
			c.dimensions, len(parsed.Embedding))
	}
	return parsed.Embedding, nil
}
