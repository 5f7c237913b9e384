// internal/engine/blend/blender.go

// Package blend combines the gated statistical and generative scores into
// the final match score.
package blend

import (
	"talentmatch-workers/internal/common/metrics"
	"talentmatch-workers/internal/models"
)

// Weights are the blend weights for the two model families. They are
// normalized to sum to 1.0 before use.
type Weights struct {
	ML  float64 `json:"ml"`
	LLM float64 `json:"llm"`
}

// DefaultWeights is the calibrated production blend.
func DefaultWeights() Weights {
	return Weights{ML: 0.6, LLM: 0.4}
}

// Normalized returns the weights scaled so ML + LLM = 1.0. Degenerate
// weights fall back to the default blend.
func (w Weights) Normalized() Weights {
	sum := w.ML + w.LLM
	if sum <= 0 {
		return DefaultWeights()
	}
	return Weights{ML: w.ML / sum, LLM: w.LLM / sum}
}

// ApplyBiasDelta adjusts the raw generative score by the bias-detection
// delta. Applied before gating and blending, never after.
func ApplyBiasDelta(rawLLM, delta float64) float64 {
	return clampScore(rawLLM + delta)
}

// Blend computes the weighted sum of the gated scores. When the generative
// score is unavailable the blend renormalizes to the statistical side and
// marks the context ML-only. Confidence is carried through from the quality
// gates, not recomputed here.
func Blend(gatedML, gatedLLM float64, llmAvailable bool, weights Weights, confidence float64, violations []string) models.ScoringContext {
	w := weights.Normalized()

	ctx := models.ScoringContext{
		GatedMLScore:  gatedML,
		GatedLLMScore: gatedLLM,
		Confidence:    confidence,
		ViolatedGates: violations,
	}

	if llmAvailable {
		ctx.BlendedScore = w.ML*gatedML + w.LLM*gatedLLM
	} else {
		ctx.MLOnly = true
		ctx.BlendedScore = gatedML
	}

	ctx.FinalScore = clampScore(ctx.BlendedScore)
	metrics.FinalScores.Observe(ctx.FinalScore)
	return ctx
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
