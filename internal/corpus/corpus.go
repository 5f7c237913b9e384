// internal/corpus/corpus.go
package corpus

import (
	"context"

	"talentmatch-workers/internal/models"
)

// Hit is one relevance-ranked corpus record with its raw engine score.
type Hit struct {
	Record    models.SkillRecord
	Relevance float64
}

// Searcher is the read-only skill corpus boundary. The corpus is built
// offline and versioned; this engine never writes to it.
type Searcher interface {
	// Search runs a disjunctive relevance query over the released records,
	// scoped to the given domain (or transversal records) unless the domain
	// is general.
	Search(ctx context.Context, terms []string, domain models.Domain, limit int) ([]Hit, error)

	// Version returns the corpus version tag stamped into audit records.
	Version() string
}
