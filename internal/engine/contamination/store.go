// internal/engine/contamination/store.go
package contamination

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	commonErrors "talentmatch-workers/internal/common/errors"
	"talentmatch-workers/internal/models"
)

const loadGuardsQuery = `
SELECT name, pattern, allowed_context, blocked_domains, confidence
FROM contamination_guards
ORDER BY name`

// Store loads the curated guard table from Postgres. The table is read-only
// at runtime; rows are maintained out of band.
type Store struct {
	db *sql.DB
}

// NewStore creates a guard store over an existing database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// LoadGuards reads all guard rows. An empty table is not an error; callers
// fall back to DefaultGuards.
func (s *Store) LoadGuards(ctx context.Context) ([]Guard, error) {
	rows, err := s.db.QueryContext(ctx, loadGuardsQuery)
	if err != nil {
		return nil, commonErrors.NewGuardTableLoadFailedError(err)
	}
	defer rows.Close()

	var guards []Guard
	for rows.Next() {
		var (
			g       Guard
			allowed pq.StringArray
			blocked pq.StringArray
		)
		if err := rows.Scan(&g.Name, &g.Pattern, &allowed, &blocked, &g.Confidence); err != nil {
			return nil, commonErrors.NewGuardTableLoadFailedError(err)
		}
		g.AllowedContext = []string(allowed)
		for _, d := range blocked {
			g.BlockedDomains = append(g.BlockedDomains, models.Domain(d))
		}
		guards = append(guards, g)
	}
	if err := rows.Err(); err != nil {
		return nil, commonErrors.NewGuardTableLoadFailedError(err)
	}

	return guards, nil
}
