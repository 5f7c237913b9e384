// internal/engine/contamination/guard.go
package contamination

import (
	"regexp"

	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/models"
)

// Guard is one named contamination rule: a text pattern, the domains it
// blocks in, and the context keywords that override the block.
type Guard struct {
	Name           string
	Pattern        string
	AllowedContext []string
	BlockedDomains []models.Domain
	Confidence     float64

	re *regexp.Regexp
}

// BlocksIn reports whether the guard applies to the given domain.
func (g *Guard) BlocksIn(domain models.Domain) bool {
	for _, d := range g.BlockedDomains {
		if d == domain {
			return true
		}
	}
	return false
}

// Table is the immutable, compiled guard set, loaded once at startup and
// indexed by blocked domain.
type Table struct {
	guards   []*Guard
	byDomain map[models.Domain][]*Guard
}

// NewTable compiles the guard patterns into an immutable table. A guard with
// an invalid pattern is kept with a nil matcher so that evaluation fails open
// per rule instead of dropping the rule silently.
func NewTable(guards []Guard, log logger.Logger) *Table {
	t := &Table{
		guards:   make([]*Guard, 0, len(guards)),
		byDomain: make(map[models.Domain][]*Guard),
	}

	for i := range guards {
		g := guards[i]
		re, err := regexp.Compile(g.Pattern)
		if err != nil {
			log.Warn("contamination guard pattern invalid, guard will fail open", map[string]interface{}{
				"guard":   g.Name,
				"pattern": g.Pattern,
				"error":   err.Error(),
			})
		} else {
			g.re = re
		}

		gp := &g
		t.guards = append(t.guards, gp)
		for _, d := range g.BlockedDomains {
			t.byDomain[d] = append(t.byDomain[d], gp)
		}
	}

	return t
}

// ForDomain returns the guards capable of blocking in the given domain.
func (t *Table) ForDomain(domain models.Domain) []*Guard {
	return t.byDomain[domain]
}

// Len returns the number of guards in the table.
func (t *Table) Len() int {
	return len(t.guards)
}

// DefaultGuards is the built-in rule set mirroring the curated contamination
// tables; used when the guard store is empty or unavailable.
func DefaultGuards() []Guard {
	return []Guard{
		{
			Name:    "pharma-indicators-in-tech",
			Pattern: `(?i)manufacturing practice|fda|clinical|drug safety|drug development|medical|regulatory|pharmacovigilance|gmp`,
			AllowedContext: []string{
				"healthtech", "biotech", "medical device", "digital health", "health informatics",
			},
			BlockedDomains: []models.Domain{models.DomainTechnology},
			Confidence:     0.9,
		},
		{
			Name:    "consumer-tech-in-pharma",
			Pattern: `(?i)\bios\b|android|react|angular|javascript|web development|frontend|mobile app`,
			AllowedContext: []string{
				"data analysis", "bioinformatics", "software validation",
				"computer system validation", "clinical data",
			},
			BlockedDomains: []models.Domain{models.DomainPharmaceutical},
			Confidence:     0.85,
		},
		{
			Name:    "finance-specific-outside-finance",
			Pattern: `(?i)securities trading|hedge fund|underwriting|actuarial`,
			AllowedContext: []string{
				"fintech", "financial software", "trading platform",
			},
			BlockedDomains: []models.Domain{models.DomainTechnology, models.DomainManufacturing},
			Confidence:     0.8,
		},
		{
			Name:    "patient-care-outside-healthcare",
			Pattern: `(?i)patient care|nursing|bedside|care plan`,
			AllowedContext: []string{
				"healthtech", "health insurance", "telehealth",
			},
			BlockedDomains: []models.Domain{models.DomainTechnology, models.DomainFinance},
			Confidence:     0.8,
		},
	}
}
