// internal/engine/contamination/filter.go
package contamination

import (
	"fmt"
	"strings"

	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/common/metrics"
	"talentmatch-workers/internal/models"
)

// Report summarizes one filter pass over a set of skill matches.
type Report struct {
	BlockedCount int      `json:"blockedCount"`
	FlaggedCount int      `json:"flaggedCount"`
	Reasons      []string `json:"reasons,omitempty"`
}

// Filter removes cross-domain contaminated skills from extraction results
// using the compiled guard table.
type Filter struct {
	table  *Table
	logger logger.Logger
}

// NewFilter creates a Filter over the given guard table.
func NewFilter(table *Table, log logger.Logger) *Filter {
	return &Filter{table: table, logger: log}
}

// Apply evaluates every guard that can block in the given domain against each
// skill match. A pattern hit blocks the skill unless any allowed-context
// keyword appears in the source text, in which case the skill passes flagged.
// Guard evaluation errors fail open: the skill is kept with a low-confidence
// marker. The first blocking guard wins per skill.
func (f *Filter) Apply(matches []models.SkillMatch, domain models.Domain, sourceText string) ([]models.SkillMatch, Report) {
	report := Report{}
	if len(matches) == 0 {
		return matches, report
	}

	guards := f.table.ForDomain(domain)
	if len(guards) == 0 {
		return matches, report
	}

	lowerSource := strings.ToLower(sourceText)
	allowed := make([]models.SkillMatch, 0, len(matches))

	for _, m := range matches {
		blocked := false

		for _, g := range guards {
			if g.re == nil {
				m.LowConfidence = true
				f.logger.Warn("contamination guard unavailable, passing skill through", map[string]interface{}{
					"guard": g.Name,
					"skill": m.Skill.Title,
				})
				continue
			}

			if !g.re.MatchString(m.Skill.SearchableText()) {
				continue
			}

			if containsAny(lowerSource, g.AllowedContext) {
				report.FlaggedCount++
				report.Reasons = append(report.Reasons,
					fmt.Sprintf("guard %q matched %q but allowed context present", g.Name, m.Skill.Title))
				metrics.ContaminationFlagged.WithLabelValues(string(domain), g.Name).Inc()
				continue
			}

			blocked = true
			report.BlockedCount++
			report.Reasons = append(report.Reasons,
				fmt.Sprintf("guard %q blocked %q in domain %s", g.Name, m.Skill.Title, domain))
			metrics.ContaminationBlocked.WithLabelValues(string(domain), g.Name).Inc()
			break
		}

		if !blocked {
			allowed = append(allowed, m)
		}
	}

	if report.BlockedCount > 0 || report.FlaggedCount > 0 {
		f.logger.Info("contamination filter applied", map[string]interface{}{
			"domain":  string(domain),
			"in":      len(matches),
			"out":     len(allowed),
			"blocked": report.BlockedCount,
			"flagged": report.FlaggedCount,
		})
	}

	return allowed, report
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
