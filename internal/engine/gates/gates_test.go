// internal/engine/gates/gates_test.go
package gates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/models"
)

func testEngine(t *testing.T) *Engine {
	return New(ScoreFloor, logger.NewTestLogger(t))
}

func jsProfile() models.CandidateProfile {
	return models.CandidateProfile{
		Skills:          []string{"JavaScript", "React", "AWS"},
		YearsExperience: 5,
		Certifications:  []string{"AWS Certified Developer"},
	}
}

func TestApplyNoViolations(t *testing.T) {
	e := testEngine(t)

	ml, llm, violations := e.Apply(80, 70, jsProfile(), Requirements{
		RequiredSkills:     []string{"JavaScript", "React"},
		MinYearsExperience: 3,
	})

	assert.Equal(t, 80.0, ml)
	assert.Equal(t, 70.0, llm)
	assert.Empty(t, violations)
}

func TestApplyMissingSkillsPenalty(t *testing.T) {
	e := testEngine(t)

	// Kubernetes and Go missing: penalty = min(0.4, 2*0.1) = 0.2.
	ml, llm, violations := e.Apply(80, 70, jsProfile(), Requirements{
		RequiredSkills: []string{"JavaScript", "Kubernetes", "Go"},
	})

	assert.InDelta(t, 80*0.8, ml, 1e-9)
	assert.InDelta(t, 70*0.8, llm, 1e-9)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "Kubernetes")
	assert.Contains(t, violations[0], "Go")
}

func TestApplySkillPenaltyIsCapped(t *testing.T) {
	e := testEngine(t)

	ml, _, violations := e.Apply(100, 100, models.CandidateProfile{}, Requirements{
		RequiredSkills: []string{"a", "b", "c", "d", "e", "f", "g"},
	})

	// 7 missing would be 0.7, capped at 0.4.
	assert.InDelta(t, 60.0, ml, 1e-9)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "0.40")
}

func TestApplyExperiencePenalty(t *testing.T) {
	e := testEngine(t)

	profile := jsProfile()
	profile.YearsExperience = 4

	ml, _, violations := e.Apply(80, 70, profile, Requirements{
		MinYearsExperience: 8,
	})

	// 1 - 4/8 = 0.5, capped at 0.3.
	assert.InDelta(t, 80*0.7, ml, 1e-9)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "experience")
}

func TestApplyEducationPenalty(t *testing.T) {
	e := testEngine(t)

	profile := jsProfile()
	profile.Education = []string{"BSc Computer Science"}

	ml, _, violations := e.Apply(80, 70, profile, Requirements{
		RequiredEducation: []string{"computer science", "MBA"},
	})

	// Fuzzy match covers computer science; only MBA missing.
	assert.InDelta(t, 80*0.9, ml, 1e-9)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "MBA")
}

func TestApplyPenaltiesCompose(t *testing.T) {
	e := testEngine(t)

	profile := models.CandidateProfile{
		Skills:          []string{"Python"},
		YearsExperience: 2,
	}
	ml, llm, violations := e.Apply(90, 80, profile, Requirements{
		RequiredSkills:     []string{"Python", "Terraform"},
		MinYearsExperience: 4,
		RequiredEducation:  []string{"PhD"},
	})

	// (1-0.1) * (1-0.3) * (1-0.1) = 0.567
	assert.InDelta(t, 90*0.567, ml, 1e-6)
	assert.InDelta(t, 80*0.567, llm, 1e-6)
	assert.Len(t, violations, 3)
}

func TestApplyFloorsNeverZero(t *testing.T) {
	e := testEngine(t)

	ml, llm, _ := e.Apply(12, 5, models.CandidateProfile{}, Requirements{
		RequiredSkills:     []string{"a", "b", "c", "d"},
		MinYearsExperience: 10,
		RequiredEducation:  []string{"x", "y"},
	})

	assert.Equal(t, ScoreFloor, ml)
	assert.Equal(t, ScoreFloor, llm)
}

func TestFuzzyMatchBothDirections(t *testing.T) {
	assert.True(t, fuzzyContains([]string{"JavaScript programming"}, "javascript"))
	assert.True(t, fuzzyContains([]string{"react"}, "React.js Framework (react)"))
	assert.False(t, fuzzyContains([]string{"Java"}, "Kotlin"))
}

func TestConfidenceDerivation(t *testing.T) {
	profile := jsProfile()

	assert.Equal(t, 1.0, Confidence(nil, profile, Requirements{}))

	conf := Confidence([]string{"v1", "v2"}, profile, Requirements{})
	assert.InDelta(t, 0.7, conf, 1e-9)

	// Matched preferred qualifications recover confidence.
	conf = Confidence([]string{"v1"}, profile, Requirements{
		PreferredQualifications: []string{"AWS Certified", "Kubernetes"},
	})
	assert.InDelta(t, 0.9, conf, 1e-9)

	many := make([]string, 10)
	assert.Equal(t, 0.1, Confidence(many, profile, Requirements{}))
}

func TestApplySameMultiplierForBothScores(t *testing.T) {
	e := testEngine(t)

	ml, llm, _ := e.Apply(100, 50, jsProfile(), Requirements{
		RequiredSkills: []string{"Rust"},
	})

	assert.InDelta(t, ml/100, llm/50, 1e-9)
}
