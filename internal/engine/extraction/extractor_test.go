// internal/engine/extraction/extractor_test.go
package extraction

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/corpus"
	"talentmatch-workers/internal/engine/contamination"
	"talentmatch-workers/internal/models"
)

type fakeSearcher struct {
	hits    []corpus.Hit
	err     error
	lastReq struct {
		terms  []string
		domain models.Domain
		limit  int
	}
	calls int
}

func (f *fakeSearcher) Search(_ context.Context, terms []string, domain models.Domain, limit int) ([]corpus.Hit, error) {
	f.calls++
	f.lastReq.terms = terms
	f.lastReq.domain = domain
	f.lastReq.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

func (f *fakeSearcher) Version() string { return "test-corpus-v1" }

func hit(id, title string, relevance float64) corpus.Hit {
	return corpus.Hit{
		Record: models.SkillRecord{
			ID:     id,
			Title:  title,
			Domain: models.DomainTechnology,
			Status: models.StatusReleased,
		},
		Relevance: relevance,
	}
}

func TestNormalizeScoreShape(t *testing.T) {
	// Monotonic, floored at 0.1, saturates at 1.0.
	assert.InDelta(t, 0.1, normalizeScore(-10), 1e-9)
	assert.InDelta(t, math.Exp(-0.5), normalizeScore(-1), 1e-9)
	assert.Equal(t, 1.0, normalizeScore(0.5))
	assert.Equal(t, 1.0, normalizeScore(12))
	assert.LessOrEqual(t, normalizeScore(-3), normalizeScore(-2))
}

func TestExtractRanksAndTypesMatches(t *testing.T) {
	searcher := &fakeSearcher{
		hits: []corpus.Hit{
			hit("s1", "Python", -2),
			hit("s2", "Distributed systems", -2),
		},
	}
	e := New(searcher, nil, nil, logger.NewTestLogger(t))

	res := e.Extract(context.Background(), "senior python developer with cloud experience",
		models.DomainTechnology, 25, 0.0)

	require.True(t, res.Success)
	require.Len(t, res.Skills, 2)

	// Exact match boosted above the semantic one.
	assert.Equal(t, "Python", res.Skills[0].Skill.Title)
	assert.Equal(t, models.MatchExact, res.Skills[0].MatchType)
	assert.NotEmpty(t, res.Skills[0].Snippet)
	assert.Equal(t, models.MatchSemantic, res.Skills[1].MatchType)
	assert.Greater(t, res.Skills[0].MatchScore, res.Skills[1].MatchScore)
	assert.LessOrEqual(t, res.Skills[0].MatchScore, 1.0)

	assert.Equal(t, []string{"technology"}, res.Domains)
	assert.Equal(t, 2, res.TotalSkills)
}

func TestExtractPartialMatchViaAltLabel(t *testing.T) {
	h := hit("s1", "JavaScript (programming)", -2)
	h.Record.AltLabels = []string{"JavaScript", "JS"}
	searcher := &fakeSearcher{hits: []corpus.Hit{h}}
	e := New(searcher, nil, nil, logger.NewTestLogger(t))

	res := e.Extract(context.Background(), "worked with javascript frameworks",
		models.DomainTechnology, 25, 0.0)

	require.Len(t, res.Skills, 1)
	assert.Equal(t, models.MatchPartial, res.Skills[0].MatchType)
}

func TestExtractDropsBelowMinScore(t *testing.T) {
	searcher := &fakeSearcher{
		hits: []corpus.Hit{
			hit("s1", "Python", -1),
			hit("s2", "Obscure skill", -10),
		},
	}
	e := New(searcher, nil, nil, logger.NewTestLogger(t))

	res := e.Extract(context.Background(), "python developer", models.DomainTechnology, 25, 0.3)

	require.Len(t, res.Skills, 1)
	assert.Equal(t, "Python", res.Skills[0].Skill.Title)
}

func TestExtractTruncatesToMaxResults(t *testing.T) {
	searcher := &fakeSearcher{
		hits: []corpus.Hit{
			hit("s1", "Alpha", -1),
			hit("s2", "Beta", -1),
			hit("s3", "Gamma", -1),
		},
	}
	e := New(searcher, nil, nil, logger.NewTestLogger(t))

	res := e.Extract(context.Background(), "generic text", models.DomainTechnology, 2, 0.0)

	assert.Len(t, res.Skills, 2)
	assert.Equal(t, 4, searcher.lastReq.limit)
}

func TestExtractCorpusFailureReturnsUnsuccessful(t *testing.T) {
	searcher := &fakeSearcher{err: assert.AnError}
	e := New(searcher, nil, nil, logger.NewTestLogger(t))

	res := e.Extract(context.Background(), "python developer", models.DomainTechnology, 25, 0.3)

	assert.False(t, res.Success)
	assert.Empty(t, res.Skills)
	assert.NotEmpty(t, res.Error)
	assert.GreaterOrEqual(t, res.ElapsedMS, int64(0))
}

func TestExtractEmptyTextSucceedsWithNoSkills(t *testing.T) {
	searcher := &fakeSearcher{}
	e := New(searcher, nil, nil, logger.NewTestLogger(t))

	res := e.Extract(context.Background(), "   ", models.DomainGeneral, 25, 0.3)

	assert.True(t, res.Success)
	assert.Empty(t, res.Skills)
	assert.Zero(t, searcher.calls)
}

func TestExtractUsesCache(t *testing.T) {
	searcher := &fakeSearcher{hits: []corpus.Hit{hit("s1", "Python", -1)}}
	cache := NewMemoryCache(10, time.Minute)
	e := New(searcher, cache, nil, logger.NewTestLogger(t))

	first := e.Extract(context.Background(), "python developer", models.DomainTechnology, 25, 0.0)
	second := e.Extract(context.Background(), "python developer", models.DomainTechnology, 25, 0.0)

	assert.Equal(t, 1, searcher.calls)
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.TotalSkills, second.TotalSkills)
}

func TestExtractAppliesContaminationFilter(t *testing.T) {
	fda := hit("s1", "FDA regulations", -1)
	fda.Record.Description = "fda submission processes"
	fda.Record.Domain = models.DomainPharmaceutical
	searcher := &fakeSearcher{
		hits: []corpus.Hit{fda, hit("s2", "Python", -1)},
	}

	table := contamination.NewTable(contamination.DefaultGuards(), logger.NewTestLogger(t))
	filter := contamination.NewFilter(table, logger.NewTestLogger(t))
	e := New(searcher, nil, filter, logger.NewTestLogger(t))

	res := e.Extract(context.Background(), "senior python developer building cloud services",
		models.DomainTechnology, 25, 0.0)

	require.True(t, res.Success)
	require.Len(t, res.Skills, 1)
	assert.Equal(t, "Python", res.Skills[0].Skill.Title)
	assert.Equal(t, 1, res.Blocked)
	assert.Equal(t, 1, res.TotalSkills)
	assert.NotEmpty(t, res.Reasons)
}
