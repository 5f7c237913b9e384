// internal/engine/scoring/pipeline.go

// Package scoring orchestrates the full match pipeline: domain detection,
// skill extraction, contamination filtering, semantic similarity, generative
// analysis, requirement gating, blending and audit.
package scoring

import (
	"context"
	"strings"
	"time"

	"talentmatch-workers/internal/audit"
	commonErrors "talentmatch-workers/internal/common/errors"
	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/engine/blend"
	"talentmatch-workers/internal/engine/domaindetect"
	"talentmatch-workers/internal/engine/extraction"
	"talentmatch-workers/internal/engine/gates"
	"talentmatch-workers/internal/engine/similarity"
	"talentmatch-workers/internal/llm"
	"talentmatch-workers/internal/models"
)

// Analyzer is the generative match-analysis collaborator. A nil analyzer
// yields an ML-only blend.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobText string) (*llm.Analysis, error)
	PromptVersion() string
}

// Embedder produces one vector per input text, substituting zero vectors for
// failed items.
type Embedder interface {
	EmbedAll(ctx context.Context, texts []string) [][]float64
}

// Request is one candidate/job scoring call.
type Request struct {
	ResumeText   string
	JobText      string
	Profile      models.CandidateProfile
	Requirements gates.Requirements
}

// Response carries the final scores plus the intermediate artifacts callers
// surface to process variables.
type Response struct {
	Scores        models.ScoringContext
	ResumeSkills  *extraction.Result
	JobSkills     *extraction.Result
	Domain        models.Domain
	SimilarityPct float64
	Analysis      *llm.Analysis
	AuditID       string
	ElapsedMS     int64
}

// Config fixes the extraction and blend parameters for a pipeline instance.
type Config struct {
	MaxResults    int
	MinScore      float64
	Weights       blend.Weights
	CorpusVersion string
	EmbeddingID   string
	CalibrationID string
}

// Pipeline wires the engine stages together. All stages except the
// collaborator calls are pure; the pipeline is safe for concurrent use.
type Pipeline struct {
	extractor *extraction.Extractor
	embedder  Embedder
	analyzer  Analyzer
	gates     *gates.Engine
	auditor   *audit.Writer
	cfg       Config
	logger    logger.Logger
}

// New creates a scoring pipeline. embedder, analyzer and auditor may be nil;
// each absence degrades the corresponding stage rather than failing calls.
func New(extractor *extraction.Extractor, embedder Embedder, analyzer Analyzer, gateEngine *gates.Engine, auditor *audit.Writer, cfg Config, log logger.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		embedder:  embedder,
		analyzer:  analyzer,
		gates:     gateEngine,
		auditor:   auditor,
		cfg:       cfg,
		logger:    log,
	}
}

// Score runs the full pipeline. The only error it ever returns is an
// INVALID_INPUT contract violation; every collaborator failure degrades to a
// partial result instead.
func (p *Pipeline) Score(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, commonErrors.NewInvalidInputError("resumeText must not be empty")
	}
	if strings.TrimSpace(req.JobText) == "" {
		return nil, commonErrors.NewInvalidInputError("jobText must not be empty")
	}

	var timings audit.Timings

	domain := domaindetect.Detect(req.JobText)

	extractionStart := time.Now()
	resumeSkills := p.extractor.Extract(ctx, req.ResumeText, domain, p.cfg.MaxResults, p.cfg.MinScore)
	jobSkills := p.extractor.Extract(ctx, req.JobText, domain, p.cfg.MaxResults, p.cfg.MinScore)
	timings.ExtractionMS = time.Since(extractionStart).Milliseconds()

	simPct := p.similarityPercentage(ctx, req, &timings)

	rawML := p.rawMLScore(simPct, resumeSkills, jobSkills)

	rawLLM, biasAdjusted := 0.0, 0.0
	var analysis *llm.Analysis
	llmAvailable := false
	if p.analyzer != nil {
		llmStart := time.Now()
		result, err := p.analyzer.Analyze(ctx, req.ResumeText, req.JobText)
		timings.LLMMS = time.Since(llmStart).Milliseconds()
		if err != nil {
			p.logger.Warn("generative analysis unavailable, blending ML-only", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			analysis = result
			rawLLM = result.Score
			biasAdjusted = blend.ApplyBiasDelta(rawLLM, result.BiasDelta)
			llmAvailable = true
		}
	}

	gatedML, gatedLLM, violations := p.gates.Apply(rawML, biasAdjusted, req.Profile, req.Requirements)
	confidence := gates.Confidence(violations, req.Profile, req.Requirements)

	scores := blend.Blend(gatedML, gatedLLM, llmAvailable, p.cfg.Weights, confidence, violations)
	scores.RawMLScore = rawML
	scores.RawLLMScore = rawLLM
	scores.BiasAdjustedLLM = biasAdjusted

	timings.TotalMS = time.Since(start).Milliseconds()

	resp := &Response{
		Scores:        scores,
		ResumeSkills:  resumeSkills,
		JobSkills:     jobSkills,
		Domain:        domain,
		SimilarityPct: simPct,
		Analysis:      analysis,
		ElapsedMS:     timings.TotalMS,
	}

	if p.auditor != nil {
		record := audit.NewRecord(scores, p.cfg.Weights.Normalized(), p.versions(), req.ResumeText, req.JobText, timings)
		p.auditor.Append(record)
		resp.AuditID = record.ID
	}

	p.logger.Info("match scored", map[string]interface{}{
		"domain":     string(domain),
		"finalScore": scores.FinalScore,
		"mlOnly":     scores.MLOnly,
		"violations": len(violations),
		"elapsedMs":  timings.TotalMS,
	})

	return resp, nil
}

// similarityPercentage embeds both texts and converts their cosine
// similarity to a 0 to 100 score. Without an embedder the stage contributes
// nothing.
func (p *Pipeline) similarityPercentage(ctx context.Context, req Request, timings *audit.Timings) float64 {
	if p.embedder == nil {
		return 0
	}

	embedStart := time.Now()
	vectors := p.embedder.EmbedAll(ctx, []string{req.ResumeText, req.JobText})
	timings.EmbeddingMS = time.Since(embedStart).Milliseconds()

	if len(vectors) != 2 {
		return 0
	}

	simStart := time.Now()
	pct := similarity.Percentage(vectors[0], vectors[1])
	timings.SimilarityMS = time.Since(simStart).Milliseconds()
	return pct
}

// rawMLScore combines semantic similarity with skill coverage: the share of
// job skills that also appear in the resume extraction, fuzzy-matched on
// normalized titles.
func (p *Pipeline) rawMLScore(simPct float64, resumeSkills, jobSkills *extraction.Result) float64 {
	coverage := skillCoverage(resumeSkills, jobSkills)
	if simPct == 0 {
		return coverage * 100
	}
	return 0.7*simPct + 0.3*coverage*100
}

func skillCoverage(resumeSkills, jobSkills *extraction.Result) float64 {
	if jobSkills == nil || len(jobSkills.Skills) == 0 {
		return 0
	}
	resumeTitles := make([]string, 0, len(resumeSkills.Skills))
	for _, m := range resumeSkills.Skills {
		resumeTitles = append(resumeTitles, m.Skill.NormalizedTitle())
	}

	matched := 0
	for _, jm := range jobSkills.Skills {
		title := jm.Skill.NormalizedTitle()
		for _, rt := range resumeTitles {
			if strings.Contains(rt, title) || strings.Contains(title, rt) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(jobSkills.Skills))
}

func (p *Pipeline) versions() audit.Versions {
	v := audit.Versions{
		Corpus:         p.cfg.CorpusVersion,
		EmbeddingModel: p.cfg.EmbeddingID,
		Calibration:    p.cfg.CalibrationID,
	}
	if p.analyzer != nil {
		v.Prompt = p.analyzer.PromptVersion()
	}
	return v
}
