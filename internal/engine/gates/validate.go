// internal/engine/gates/validate.go
package gates

import (
	"fmt"

	"talentmatch-workers/internal/models"
)

// ScoreFunc computes a gated score for a candidate profile.
type ScoreFunc func(profile models.CandidateProfile) float64

// ValidateMonotonicity asserts that adding qualifications to a profile never
// strictly decreases its score. A violation is reported as a string, never
// corrected.
func ValidateMonotonicity(base, enhanced models.CandidateProfile, score ScoreFunc) []string {
	var violations []string

	baseScore := score(base)
	enhancedScore := score(enhanced)
	if enhancedScore < baseScore {
		violations = append(violations, fmt.Sprintf(
			"monotonicity violation: enhanced profile scored %.2f below base %.2f",
			enhancedScore, baseScore))
	}
	return violations
}

// ValidateRankOrder checks that gate application preserved the pairwise rank
// order implied by the raw scores. Every inversion is reported.
func ValidateRankOrder(rawScores, gatedScores []float64) []string {
	var violations []string
	if len(rawScores) != len(gatedScores) {
		return []string{fmt.Sprintf(
			"rank order check skipped: %d raw scores vs %d gated scores",
			len(rawScores), len(gatedScores))}
	}

	for i := 0; i < len(rawScores); i++ {
		for j := i + 1; j < len(rawScores); j++ {
			if rawScores[i] > rawScores[j] && gatedScores[i] < gatedScores[j] {
				violations = append(violations, fmt.Sprintf(
					"rank inversion: candidate %d (raw %.2f) fell below candidate %d (raw %.2f) after gating",
					i, rawScores[i], j, rawScores[j]))
			}
		}
	}
	return violations
}
