// internal/engine/gates/gates.go

// Package gates applies hard requirement penalties to raw match scores and
// validates the monotonicity properties the blender must never break.
package gates

import (
	"fmt"
	"strings"

	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/common/metrics"
	"talentmatch-workers/internal/models"
)

const (
	maxSkillPenalty      = 0.4
	maxExperiencePenalty = 0.3
	maxEducationPenalty  = 0.2
	penaltyPerMissing    = 0.1

	// ScoreFloor is the minimum gated score on the 0 to 100 scale. Scores
	// never floor to zero so downstream ranking stays continuous.
	ScoreFloor = 10.0
)

// Requirements are the job constraints the gate engine evaluates. Preferred
// qualifications never penalize; they only feed the confidence derivation.
type Requirements struct {
	RequiredSkills          []string `json:"requiredSkills,omitempty"`
	MinYearsExperience      float64  `json:"minYearsExperience,omitempty"`
	RequiredEducation       []string `json:"requiredEducation,omitempty"`
	PreferredQualifications []string `json:"preferredQualifications,omitempty"`
}

// Confidence derives the quality-gate confidence scalar: it starts at 1,
// drops per triggered gate, and recovers slightly per matched preferred
// qualification.
func Confidence(violations []string, profile models.CandidateProfile, reqs Requirements) float64 {
	conf := 1.0 - 0.15*float64(len(violations))

	if len(reqs.PreferredQualifications) > 0 {
		matched := 0
		pool := append(append([]string{}, profile.Skills...), profile.Certifications...)
		pool = append(pool, profile.Education...)
		for _, q := range reqs.PreferredQualifications {
			if fuzzyContains(pool, q) {
				matched++
			}
		}
		conf += 0.05 * float64(matched)
	}

	if conf < 0.1 {
		return 0.1
	}
	if conf > 1.0 {
		return 1.0
	}
	return conf
}

// Engine applies multiplicative requirement penalties to raw scores.
type Engine struct {
	floor  float64
	logger logger.Logger
}

// New creates a gate engine with the given score floor.
func New(floor float64, log logger.Logger) *Engine {
	if floor <= 0 {
		floor = ScoreFloor
	}
	return &Engine{floor: floor, logger: log}
}

// Apply computes the three requirement penalties against the raw scores and
// applies them multiplicatively to both, clamped at the floor. Violations are
// returned as readable strings and logged; a violation is an expected
// outcome, never an error.
func (e *Engine) Apply(mlScore, llmScore float64, profile models.CandidateProfile, reqs Requirements) (float64, float64, []string) {
	var violations []string
	multiplier := 1.0

	if missing := missingEntries(reqs.RequiredSkills, profile.Skills); len(missing) > 0 {
		penalty := capPenalty(float64(len(missing))*penaltyPerMissing, maxSkillPenalty)
		multiplier *= 1 - penalty
		violations = append(violations, fmt.Sprintf(
			"missing required skills: %s (penalty %.2f)", strings.Join(missing, ", "), penalty))
		metrics.GateViolations.WithLabelValues("required_skills").Inc()
	}

	if reqs.MinYearsExperience > 0 && profile.YearsExperience < reqs.MinYearsExperience {
		penalty := capPenalty(1-profile.YearsExperience/reqs.MinYearsExperience, maxExperiencePenalty)
		multiplier *= 1 - penalty
		violations = append(violations, fmt.Sprintf(
			"experience %.1f years below required %.1f (penalty %.2f)",
			profile.YearsExperience, reqs.MinYearsExperience, penalty))
		metrics.GateViolations.WithLabelValues("min_experience").Inc()
	}

	if missing := missingEntries(reqs.RequiredEducation, profile.Education); len(missing) > 0 {
		penalty := capPenalty(float64(len(missing))*penaltyPerMissing, maxEducationPenalty)
		multiplier *= 1 - penalty
		violations = append(violations, fmt.Sprintf(
			"missing required education: %s (penalty %.2f)", strings.Join(missing, ", "), penalty))
		metrics.GateViolations.WithLabelValues("required_education").Inc()
	}

	adjustedML := e.clamp(mlScore * multiplier)
	adjustedLLM := e.clamp(llmScore * multiplier)

	if len(violations) > 0 {
		e.logger.Info("requirement gates applied", map[string]interface{}{
			"violations": len(violations),
			"multiplier": multiplier,
			"mlScore":    adjustedML,
			"llmScore":   adjustedLLM,
		})
	}

	return adjustedML, adjustedLLM, violations
}

func (e *Engine) clamp(score float64) float64 {
	if score < e.floor {
		return e.floor
	}
	return score
}

// missingEntries returns the required entries with no fuzzy match among the
// candidate entries. Fuzzy means case-insensitive substring containment in
// either direction.
func missingEntries(required, actual []string) []string {
	var missing []string
	for _, req := range required {
		if !fuzzyContains(actual, req) {
			missing = append(missing, req)
		}
	}
	return missing
}

func fuzzyContains(haystack []string, needle string) bool {
	n := strings.ToLower(strings.TrimSpace(needle))
	if n == "" {
		return true
	}
	for _, h := range haystack {
		hl := strings.ToLower(strings.TrimSpace(h))
		if hl == "" {
			continue
		}
		if strings.Contains(hl, n) || strings.Contains(n, hl) {
			return true
		}
	}
	return false
}

func capPenalty(penalty, max float64) float64 {
	if penalty > max {
		return max
	}
	if penalty < 0 {
		return 0
	}
	return penalty
}
