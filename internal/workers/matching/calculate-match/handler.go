// internal/workers/matching/calculate-match/handler.go
package calculatematch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"

	commonErrors "talentmatch-workers/internal/common/errors"
	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/common/metrics"
	"talentmatch-workers/internal/engine/scoring"
)

const TaskType = "calculate-match"

const inputSchema = `{
	"type": "object",
	"required": ["resumeText", "jobText"],
	"properties": {
		"resumeText": {"type": "string", "minLength": 1},
		"jobText": {"type": "string", "minLength": 1},
		"candidateProfile": {
			"type": "object",
			"properties": {
				"skills": {"type": "array", "items": {"type": "string"}},
				"yearsExperience": {"type": "number", "minimum": 0},
				"education": {"type": "array", "items": {"type": "string"}},
				"certifications": {"type": "array", "items": {"type": "string"}}
			}
		},
		"requirements": {
			"type": "object",
			"properties": {
				"requiredSkills": {"type": "array", "items": {"type": "string"}},
				"minYearsExperience": {"type": "number", "minimum": 0},
				"requiredEducation": {"type": "array", "items": {"type": "string"}},
				"preferredQualifications": {"type": "array", "items": {"type": "string"}}
			}
		}
	}
}`

type Handler struct {
	config   *Config
	pipeline *scoring.Pipeline
	schema   *gojsonschema.Schema
	logger   logger.Logger
}

func NewHandler(config *Config, pipeline *scoring.Pipeline, log logger.Logger) (*Handler, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(inputSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling input schema: %w", err)
	}
	return &Handler{
		config:   config,
		pipeline: pipeline,
		schema:   schema,
		logger:   log.With(map[string]interface{}{"taskType": TaskType}),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	if err := h.validatePayload(job.Variables); err != nil {
		h.failJob(client, job, string(commonErrors.ErrCodeInvalidInput), err.Error())
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		code := "MATCH_SCORE_FAILED"
		var stdErr *commonErrors.StandardError
		if errors.As(err, &stdErr) {
			code = string(stdErr.Code)
		}
		h.failJob(client, job, code, err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	resp, err := h.pipeline.Score(ctx, scoring.Request{
		ResumeText:   input.ResumeText,
		JobText:      input.JobText,
		Profile:      input.CandidateProfile,
		Requirements: input.Requirements,
	})
	if err != nil {
		return nil, err
	}

	output := &Output{
		Success:       true,
		MatchScore:    resp.Scores.FinalScore,
		Scores:        resp.Scores,
		Domain:        string(resp.Domain),
		SimilarityPct: resp.SimilarityPct,
		ResumeSkills:  resp.ResumeSkills.TotalSkills,
		JobSkills:     resp.JobSkills.TotalSkills,
		AuditID:       resp.AuditID,
		ElapsedMS:     resp.ElapsedMS,
	}
	if resp.Analysis != nil {
		output.Strengths = resp.Analysis.Strengths
		output.Gaps = resp.Analysis.Gaps
	}

	h.logger.Info("match score calculated", map[string]interface{}{
		"finalScore": output.MatchScore,
		"domain":     output.Domain,
		"mlOnly":     output.Scores.MLOnly,
		"elapsedMs":  output.ElapsedMS,
	})
	return output, nil
}

func (h *Handler) validatePayload(variables string) error {
	result, err := h.schema.Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return fmt.Errorf("payload validation: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("invalid payload: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

// Execute exposes the core scoring path for tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// ValidatePayload exposes schema validation for tests.
func (h *Handler) ValidatePayload(variables string) error {
	return h.validatePayload(variables)
}
