// internal/audit/audit_test.go
package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/engine/blend"
	"talentmatch-workers/internal/models"
)

func sampleRecord() Record {
	scores := models.ScoringContext{
		RawMLScore:    82,
		RawLLMScore:   74,
		GatedMLScore:  73.8,
		GatedLLMScore: 66.6,
		BlendedScore:  70.9,
		FinalScore:    70.9,
		Confidence:    0.85,
		ViolatedGates: []string{"missing required skills: Go (penalty 0.10)"},
	}
	versions := Versions{
		Corpus:         "corpus-v3",
		EmbeddingModel: "embed-small-384",
		Prompt:         "match-v2",
		Calibration:    "default",
	}
	timings := Timings{ExtractionMS: 42, EmbeddingMS: 120, SimilarityMS: 1, LLMMS: 800, TotalMS: 970}
	return NewRecord(scores, blend.DefaultWeights(), versions, "resume text", "job text", timings)
}

func TestNewRecordStampsIdentityAndVersions(t *testing.T) {
	rec := sampleRecord()

	_, err := uuid.Parse(rec.ID)
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, rec.Timestamp.Location())
	assert.Equal(t, "corpus-v3", rec.Versions.Corpus)
	assert.Equal(t, "embed-small-384", rec.Versions.EmbeddingModel)
	assert.InDelta(t, 0.6, rec.Weights.ML, 1e-9)
}

func TestHashesAreDeterministic(t *testing.T) {
	a := NewRecord(models.ScoringContext{}, blend.DefaultWeights(), Versions{}, "resume text", "job text", Timings{})
	b := NewRecord(models.ScoringContext{}, blend.DefaultWeights(), Versions{}, "resume text", "job text", Timings{})

	assert.Equal(t, a.Hashes, b.Hashes)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.Hashes.RawResume, 64)
	assert.NotEqual(t, a.Hashes.RawResume, a.Hashes.RawJob)
}

func TestNormalizedHashIgnoresFormatting(t *testing.T) {
	a := HashText(NormalizeText("Senior  Python\n\tDeveloper"))
	b := HashText(NormalizeText("senior python developer"))
	assert.Equal(t, a, b)

	// Raw hashes keep the difference.
	assert.NotEqual(t, HashText("Senior  Python\n\tDeveloper"), HashText("senior python developer"))
}

func TestWriterAppendsOneLinePerRecord(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, true, logger.NewTestLogger(t))

	first := sampleRecord()
	second := sampleRecord()
	w.Append(first)
	w.Append(second)

	name := "audit-" + time.Now().UTC().Format("2006-01-02") + ".jsonl"
	f, err := os.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		ids = append(ids, rec.ID)
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{first.ID, second.ID}, ids)
}

func TestWriterDisabledDropsSilently(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, false, logger.NewTestLogger(t))

	w.Append(sampleRecord())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriterSwallowsPersistenceFailure(t *testing.T) {
	// A file where the directory should be forces the append to fail.
	dir := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0o644))

	w := NewWriter(dir, true, logger.NewNoOpLogger())

	assert.NotPanics(t, func() { w.Append(sampleRecord()) })
}
