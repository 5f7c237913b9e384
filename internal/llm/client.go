// internal/llm/client.go

// Package llm implements the generative match-analysis collaborator.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	commonErrors "talentmatch-workers/internal/common/errors"
	commonhttp "talentmatch-workers/internal/common/http"
	"talentmatch-workers/internal/common/logger"
)

// Analysis is the generative model's view of one candidate/job pair. The
// score is on the 0 to 100 scale; BiasDelta is the correction supplied by
// the bias-detection pass, applied to the raw score before blending.
type Analysis struct {
	Score         float64  `json:"score"`
	BiasDelta     float64  `json:"biasDelta"`
	Strengths     []string `json:"strengths,omitempty"`
	Gaps          []string `json:"gaps,omitempty"`
	Reasoning     string   `json:"reasoning,omitempty"`
	PromptVersion string   `json:"promptVersion"`
}

// Client calls the GenAI match-analysis service.
type Client struct {
	baseURL       string
	apiKey        string
	promptVersion string
	maxRetries    int
	httpClient    *commonhttp.Client
	logger        logger.Logger
}

type analyzeRequest struct {
	ResumeText    string `json:"resumeText"`
	JobText       string `json:"jobText"`
	PromptVersion string `json:"promptVersion"`
}

// NewClient creates a match-analysis client.
func NewClient(baseURL, apiKey, promptVersion string, timeout time.Duration, maxRetries int, log logger.Logger) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		promptVersion: promptVersion,
		maxRetries:    maxRetries,
		httpClient:    commonhttp.NewClient(timeout),
		logger:        log,
	}
}

// PromptVersion returns the prompt identifier stamped into audit records.
func (c *Client) PromptVersion() string { return c.promptVersion }

// Analyze runs the generative comparison of a resume against a job
// description. Transient failures are retried with backoff; an exhausted
// retry budget surfaces as a structured analysis error the scoring pipeline
// downgrades to an ML-only blend.
func (c *Client) Analyze(ctx context.Context, resumeText, jobText string) (*Analysis, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, commonErrors.NewLLMTimeoutError()
			}
			c.logger.Warn("retrying match analysis call", map[string]interface{}{
				"attempt": attempt,
				"error":   lastErr.Error(),
			})
		}

		analysis, err := c.analyze(ctx, resumeText, jobText)
		if err == nil {
			return analysis, nil
		}
		lastErr = err
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, commonErrors.NewLLMTimeoutError()
		}
	}
	return nil, commonErrors.NewLLMAnalysisFailedError(lastErr)
}

func (c *Client) analyze(ctx context.Context, resumeText, jobText string) (*Analysis, error) {
	body, err := json.Marshal(analyzeRequest{
		ResumeText:    resumeText,
		JobText:       jobText,
		PromptVersion: c.promptVersion,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/match-analysis", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("match analysis service returned %d: %s", resp.StatusCode, string(payload))
	}

	var analysis Analysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("decoding match analysis response: %w", err)
	}
	if analysis.Score < 0 || analysis.Score > 100 {
		return nil, fmt.Errorf("match analysis score out of range: %f", analysis.Score)
	}
	if analysis.PromptVersion == "" {
		analysis.PromptVersion = c.promptVersion
	}
	return &analysis, nil
}
