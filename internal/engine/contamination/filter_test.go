// internal/engine/contamination/filter_test.go
package contamination

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/models"
)

func match(title, description string, domain models.Domain) models.SkillMatch {
	return models.SkillMatch{
		Skill: models.SkillRecord{
			ID:          "skill-" + title,
			Title:       title,
			Description: description,
			Domain:      domain,
			Status:      models.StatusReleased,
		},
		MatchScore: 0.8,
		MatchType:  models.MatchExact,
	}
}

func newTestFilter(t *testing.T) *Filter {
	table := NewTable(DefaultGuards(), logger.NewTestLogger(t))
	return NewFilter(table, logger.NewTestLogger(t))
}

func TestApplyBlocksPharmaIndicatorInTech(t *testing.T) {
	f := newTestFilter(t)

	matches := []models.SkillMatch{
		match("FDA regulations", "knowledge of fda submission processes", models.DomainPharmaceutical),
		match("Python", "python programming language", models.DomainTechnology),
	}

	allowed, report := f.Apply(matches, models.DomainTechnology, "senior software engineer building cloud services")

	assert.Len(t, allowed, 1)
	assert.Equal(t, "Python", allowed[0].Skill.Title)
	assert.Equal(t, 1, report.BlockedCount)
	assert.Equal(t, 0, report.FlaggedCount)
	assert.Len(t, report.Reasons, 1)
	assert.Contains(t, report.Reasons[0], "pharma-indicators-in-tech")
}

func TestApplyAllowedContextFlagsInsteadOfBlocking(t *testing.T) {
	f := newTestFilter(t)

	matches := []models.SkillMatch{
		match("Clinical data management", "managing clinical trial data", models.DomainPharmaceutical),
	}

	allowed, report := f.Apply(matches, models.DomainTechnology,
		"software engineer at a digital health startup working on clinical data pipelines")

	assert.Len(t, allowed, 1)
	assert.Equal(t, 0, report.BlockedCount)
	assert.Equal(t, 1, report.FlaggedCount)
}

func TestApplyNoGuardsForDomainPassesThrough(t *testing.T) {
	f := newTestFilter(t)

	matches := []models.SkillMatch{
		match("Project management", "planning and delivery", models.DomainGeneral),
	}

	allowed, report := f.Apply(matches, models.DomainGeneral, "project manager")

	assert.Len(t, allowed, 1)
	assert.Zero(t, report.BlockedCount)
	assert.Zero(t, report.FlaggedCount)
}

func TestApplyInvalidPatternFailsOpen(t *testing.T) {
	guards := []Guard{
		{
			Name:           "broken-guard",
			Pattern:        `(?i)[unclosed`,
			BlockedDomains: []models.Domain{models.DomainTechnology},
			Confidence:     0.9,
		},
	}
	table := NewTable(guards, logger.NewTestLogger(t))
	f := NewFilter(table, logger.NewTestLogger(t))

	matches := []models.SkillMatch{
		match("Kubernetes", "container orchestration", models.DomainTechnology),
	}

	allowed, report := f.Apply(matches, models.DomainTechnology, "platform engineer")

	assert.Len(t, allowed, 1)
	assert.True(t, allowed[0].LowConfidence)
	assert.Zero(t, report.BlockedCount)
}

func TestApplyFirstBlockingGuardWins(t *testing.T) {
	guards := []Guard{
		{
			Name:           "guard-a",
			Pattern:        `(?i)nursing`,
			BlockedDomains: []models.Domain{models.DomainTechnology},
			Confidence:     0.8,
		},
		{
			Name:           "guard-b",
			Pattern:        `(?i)nursing`,
			BlockedDomains: []models.Domain{models.DomainTechnology},
			Confidence:     0.8,
		},
	}
	table := NewTable(guards, logger.NewTestLogger(t))
	f := NewFilter(table, logger.NewTestLogger(t))

	matches := []models.SkillMatch{
		match("Nursing", "bedside nursing experience", models.DomainHealthcare),
	}

	allowed, report := f.Apply(matches, models.DomainTechnology, "backend developer")

	assert.Empty(t, allowed)
	assert.Equal(t, 1, report.BlockedCount)
	assert.Len(t, report.Reasons, 1)
	assert.Contains(t, report.Reasons[0], "guard-a")
}

func TestApplyEmptyMatches(t *testing.T) {
	f := newTestFilter(t)

	allowed, report := f.Apply(nil, models.DomainTechnology, "any text")

	assert.Empty(t, allowed)
	assert.Zero(t, report.BlockedCount)
}
