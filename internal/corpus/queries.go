// internal/corpus/queries.go
package corpus

import (
	"strings"

	"talentmatch-workers/internal/models"
)

// BuildSearchQuery builds the Elasticsearch search body for a skill lookup.
// The term list is OR-combined in a single multi_match; filters restrict the
// corpus to released records and, outside the general domain, to records
// tagged with the domain or marked transversal.
func BuildSearchQuery(terms []string, domain models.Domain) map[string]interface{} {
	mustClauses := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":    strings.Join(terms, " "),
				"fields":   []string{"title^3", "altLabels^2", "description"},
				"type":     "best_fields",
				"operator": "or",
			},
		},
	}

	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"status": string(models.StatusReleased)},
		},
	}

	if domain != models.DomainGeneral {
		filterClauses = append(filterClauses, map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"domain": string(domain)},
					},
					map[string]interface{}{
						"term": map[string]interface{}{"reuseLevel": string(models.ReuseTransversal)},
					},
				},
				"minimum_should_match": 1,
			},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   mustClauses,
				"filter": filterClauses,
			},
		},
	}
}
