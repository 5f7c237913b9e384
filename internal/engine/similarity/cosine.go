// internal/engine/similarity/cosine.go

// Package similarity computes semantic similarity between fixed-length
// embedding vectors. All functions are pure and perform no I/O.
package similarity

import (
	"fmt"
	"math"

	commonErrors "talentmatch-workers/internal/common/errors"
)

// Cosine returns the cosine similarity of two equal-length vectors, clamped
// to [-1, 1]. Mismatched lengths are a caller contract violation and return
// an INVALID_INPUT error; this is the only hard error the engine surfaces.
//
// Non-finite components are skipped during accumulation. Two zero vectors are
// defined as identical (similarity 1.0); exactly one zero vector yields 0.0.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, commonErrors.NewInvalidInputError(
			fmt.Sprintf("vector length mismatch: %d vs %d", len(a), len(b)))
	}

	var dot, normA, normB float64
	valid := 0
	for i := range a {
		if !isFinite(a[i]) || !isFinite(b[i]) {
			continue
		}
		valid++
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	// All components skipped: treat as two empty vectors, identical by
	// the zero-vector convention below.
	if valid == 0 {
		return 1.0, nil
	}
	if normA == 0 && normB == 0 {
		return 1.0, nil
	}
	if normA == 0 || normB == 0 {
		return 0.0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim > 1.0 {
		sim = 1.0
	}
	if sim < -1.0 {
		sim = -1.0
	}
	return sim, nil
}

// Percentage rescales cosine similarity to a 0 to 100 score. An absent
// vector yields 0 rather than an error.
func Percentage(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	sim, err := Cosine(a, b)
	if err != nil {
		return 0
	}
	pct := sim * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
