// internal/workers/matching/extract-skills/handler.go
package extractskills

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonErrors "talentmatch-workers/internal/common/errors"
	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/common/metrics"
	"talentmatch-workers/internal/engine/domaindetect"
	"talentmatch-workers/internal/engine/extraction"
	"talentmatch-workers/internal/models"
)

const TaskType = "extract-skills"

type Handler struct {
	config    *Config
	extractor *extraction.Extractor
	logger    logger.Logger
}

func NewHandler(config *Config, extractor *extraction.Extractor, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		extractor: extractor,
		logger:    log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}
	if strings.TrimSpace(input.Text) == "" {
		h.failJob(client, job, string(commonErrors.ErrCodeInvalidInput), "text must not be empty")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output := h.execute(ctx, &input)

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

// execute never fails the job on corpus problems: the envelope reports
// success=false and the process decides what to do with an empty skill set.
func (h *Handler) execute(ctx context.Context, input *Input) *Output {
	domain := models.Domain(input.Domain)
	if domain == "" {
		domain = domaindetect.Detect(input.Text)
	}

	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = h.config.MaxResults
	}
	minScore := input.MinScore
	if minScore <= 0 {
		minScore = h.config.MinScore
	}

	result := h.extractor.Extract(ctx, input.Text, domain, maxResults, minScore)

	return &Output{
		Success:     result.Success,
		Skills:      result.Skills,
		TotalSkills: result.TotalSkills,
		Domains:     result.Domains,
		Domain:      string(domain),
		Blocked:     result.Blocked,
		Flagged:     result.Flagged,
		Error:       result.Error,
		ElapsedMS:   result.ElapsedMS,
	}
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

// Execute exposes the extraction path for tests.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	return h.execute(ctx, input)
}
