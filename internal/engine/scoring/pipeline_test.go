// internal/engine/scoring/pipeline_test.go
package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "talentmatch-workers/internal/common/errors"
	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/corpus"
	"talentmatch-workers/internal/engine/blend"
	"talentmatch-workers/internal/engine/extraction"
	"talentmatch-workers/internal/engine/gates"
	"talentmatch-workers/internal/llm"
	"talentmatch-workers/internal/models"
)

type stubSearcher struct {
	hits []corpus.Hit
}

func (s *stubSearcher) Search(_ context.Context, _ []string, _ models.Domain, _ int) ([]corpus.Hit, error) {
	return s.hits, nil
}

func (s *stubSearcher) Version() string { return "corpus-test" }

type stubEmbedder struct {
	vectors [][]float64
}

func (s *stubEmbedder) EmbedAll(_ context.Context, texts []string) [][]float64 {
	if s.vectors != nil {
		return s.vectors
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0.5, 0.25}
	}
	return out
}

type stubAnalyzer struct {
	analysis *llm.Analysis
	err      error
	calls    int
}

func (s *stubAnalyzer) Analyze(_ context.Context, _, _ string) (*llm.Analysis, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.analysis, nil
}

func (s *stubAnalyzer) PromptVersion() string { return "match-v2" }

func corpusHit(title string) corpus.Hit {
	return corpus.Hit{
		Record: models.SkillRecord{
			ID:     "skill-" + title,
			Title:  title,
			Domain: models.DomainTechnology,
			Status: models.StatusReleased,
		},
		Relevance: -1,
	}
}

func newTestPipeline(t *testing.T, analyzer Analyzer) *Pipeline {
	searcher := &stubSearcher{hits: []corpus.Hit{corpusHit("Python"), corpusHit("React")}}
	extractor := extraction.New(searcher, nil, nil, logger.NewTestLogger(t))
	gateEngine := gates.New(gates.ScoreFloor, logger.NewTestLogger(t))

	cfg := Config{
		MaxResults:    25,
		MinScore:      0.0,
		Weights:       blend.DefaultWeights(),
		CorpusVersion: "corpus-test",
		EmbeddingID:   "embed-test",
		CalibrationID: "default",
	}
	return New(extractor, &stubEmbedder{}, analyzer, gateEngine, nil, cfg, logger.NewTestLogger(t))
}

func scoringRequest() Request {
	return Request{
		ResumeText: "senior python and react developer with cloud experience",
		JobText:    "looking for a python react engineer",
		Profile: models.CandidateProfile{
			Skills:          []string{"Python", "React"},
			YearsExperience: 5,
		},
		Requirements: gates.Requirements{
			RequiredSkills:     []string{"Python"},
			MinYearsExperience: 3,
		},
	}
}

func TestScoreBlendsBothModels(t *testing.T) {
	analyzer := &stubAnalyzer{analysis: &llm.Analysis{Score: 80, PromptVersion: "match-v2"}}
	p := newTestPipeline(t, analyzer)

	resp, err := p.Score(context.Background(), scoringRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, analyzer.calls)
	assert.False(t, resp.Scores.MLOnly)
	assert.Equal(t, 80.0, resp.Scores.RawLLMScore)
	assert.Greater(t, resp.Scores.FinalScore, 0.0)
	assert.LessOrEqual(t, resp.Scores.FinalScore, 100.0)
	assert.InDelta(t, 100, resp.SimilarityPct, 1e-6)
	assert.Equal(t, models.DomainTechnology, resp.Domain)
	assert.Empty(t, resp.Scores.ViolatedGates)
	assert.Equal(t, 1.0, resp.Scores.Confidence)
}

func TestScoreEmptyInputIsInvalid(t *testing.T) {
	p := newTestPipeline(t, nil)

	_, err := p.Score(context.Background(), Request{ResumeText: " ", JobText: "job"})
	require.Error(t, err)

	var stdErr *commonErrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonErrors.ErrCodeInvalidInput, stdErr.Code)

	_, err = p.Score(context.Background(), Request{ResumeText: "resume", JobText: ""})
	require.Error(t, err)
}

func TestScoreLLMFailureDegradesToMLOnly(t *testing.T) {
	analyzer := &stubAnalyzer{err: commonErrors.NewLLMAnalysisFailedError(assert.AnError)}
	p := newTestPipeline(t, analyzer)

	resp, err := p.Score(context.Background(), scoringRequest())
	require.NoError(t, err)

	assert.True(t, resp.Scores.MLOnly)
	assert.Zero(t, resp.Scores.RawLLMScore)
	assert.Equal(t, resp.Scores.GatedMLScore, resp.Scores.BlendedScore)
	assert.Nil(t, resp.Analysis)
}

func TestScoreNoAnalyzerIsMLOnly(t *testing.T) {
	p := newTestPipeline(t, nil)

	resp, err := p.Score(context.Background(), scoringRequest())
	require.NoError(t, err)
	assert.True(t, resp.Scores.MLOnly)
}

func TestScoreBiasDeltaAppliedBeforeGating(t *testing.T) {
	analyzer := &stubAnalyzer{analysis: &llm.Analysis{Score: 80, BiasDelta: -10}}
	p := newTestPipeline(t, analyzer)

	resp, err := p.Score(context.Background(), scoringRequest())
	require.NoError(t, err)

	assert.Equal(t, 80.0, resp.Scores.RawLLMScore)
	assert.InDelta(t, 70.0, resp.Scores.BiasAdjustedLLM, 1e-9)
	// No gate violations in this request, so the gated score equals the
	// bias-adjusted one.
	assert.InDelta(t, 70.0, resp.Scores.GatedLLMScore, 1e-9)
}

func TestScoreGatePenaltyFlowsThrough(t *testing.T) {
	analyzer := &stubAnalyzer{analysis: &llm.Analysis{Score: 80}}
	p := newTestPipeline(t, analyzer)

	req := scoringRequest()
	req.Requirements.RequiredSkills = []string{"Python", "Kubernetes", "Go"}

	resp, err := p.Score(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Scores.ViolatedGates, 1)
	assert.InDelta(t, resp.Scores.RawMLScore*0.8, resp.Scores.GatedMLScore, 1e-6)
	assert.InDelta(t, 80*0.8, resp.Scores.GatedLLMScore, 1e-6)
	assert.Less(t, resp.Scores.Confidence, 1.0)
}

func TestScoreReturnsExtractionEnvelopes(t *testing.T) {
	p := newTestPipeline(t, nil)

	resp, err := p.Score(context.Background(), scoringRequest())
	require.NoError(t, err)

	require.NotNil(t, resp.ResumeSkills)
	require.NotNil(t, resp.JobSkills)
	assert.True(t, resp.ResumeSkills.Success)
	assert.NotEmpty(t, resp.ResumeSkills.Skills)
	assert.GreaterOrEqual(t, resp.ElapsedMS, int64(0))
}
