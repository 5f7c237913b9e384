// internal/audit/record.go

// Package audit builds and persists the append-only scoring audit trail.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"talentmatch-workers/internal/engine/blend"
	"talentmatch-workers/internal/models"
)

// Versions stamps every versioned collaborator that took part in a scoring
// call, so any historical score can be replayed against the exact inputs.
type Versions struct {
	Corpus         string `json:"corpus"`
	EmbeddingModel string `json:"embeddingModel"`
	Prompt         string `json:"prompt"`
	Calibration    string `json:"calibration"`
}

// Hashes are content fingerprints of the two inputs, raw and normalized.
type Hashes struct {
	RawResume        string `json:"rawResume"`
	RawJob           string `json:"rawJob"`
	NormalizedResume string `json:"normalizedResume"`
	NormalizedJob    string `json:"normalizedJob"`
}

// Timings is the per-stage latency breakdown in milliseconds.
type Timings struct {
	ExtractionMS int64 `json:"extractionMs"`
	EmbeddingMS  int64 `json:"embeddingMs"`
	SimilarityMS int64 `json:"similarityMs"`
	LLMMS        int64 `json:"llmMs"`
	TotalMS      int64 `json:"totalMs"`
}

// Record is one immutable audit entry. Never updated or deleted once
// appended.
type Record struct {
	ID        string                `json:"id"`
	Timestamp time.Time             `json:"timestamp"`
	Versions  Versions              `json:"versions"`
	Weights   blend.Weights         `json:"weights"`
	Scores    models.ScoringContext `json:"scores"`
	Hashes    Hashes                `json:"hashes"`
	Timings   Timings               `json:"timings"`
}

// NewRecord assembles an audit record for one completed scoring call. The
// hashes are deterministic: identical input text always yields identical
// fingerprints.
func NewRecord(scores models.ScoringContext, weights blend.Weights, versions Versions, rawResume, rawJob string, timings Timings) Record {
	return Record{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Versions:  versions,
		Weights:   weights,
		Scores:    scores,
		Hashes: Hashes{
			RawResume:        HashText(rawResume),
			RawJob:           HashText(rawJob),
			NormalizedResume: HashText(NormalizeText(rawResume)),
			NormalizedJob:    HashText(NormalizeText(rawJob)),
		},
		Timings: timings,
	}
}

// HashText returns the hex SHA-256 fingerprint of the text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// NormalizeText lower-cases and collapses whitespace so cosmetic formatting
// differences hash identically.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
