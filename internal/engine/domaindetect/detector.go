// internal/engine/domaindetect/detector.go
package domaindetect

import (
	"strings"

	"talentmatch-workers/internal/models"
)

// minKeywordHits is the minimum keyword count a domain must reach before it
// can win; below it the text is classified as general.
const minKeywordHits = 2

// domainKeywords maps each industry domain to its indicator keywords.
// Matching is substring containment over the lowercased text, not
// token-boundary matching.
var domainKeywords = map[models.Domain][]string{
	models.DomainPharmaceutical: {
		"pharmaceutical", "pharma", "drug", "clinical", "fda", "gmp",
		"medical", "biotechnology", "biotech", "regulatory", "compliance",
		"manufacturing practice", "validation", "quality control",
	},
	models.DomainTechnology: {
		"software", "developer", "programming", "engineer", "technology",
		"tech", "development", "coding", "digital", "cloud", "data",
		"javascript", "python", "react", "angular", "ios", "android",
		"cybersecurity", "saas", "api", "database", "web", "mobile",
	},
	models.DomainFinance: {
		"banking", "finance", "financial", "investment", "trading",
		"portfolio", "accounting", "audit", "risk management", "hedge",
		"securities", "credit", "underwriting", "actuarial",
	},
	models.DomainHealthcare: {
		"healthcare", "hospital", "patient", "nursing", "physician",
		"diagnosis", "treatment", "therapy", "care plan", "ehr",
		"telehealth", "clinic",
	},
	models.DomainManufacturing: {
		"manufacturing", "assembly", "production line", "lean", "six sigma",
		"supply chain", "logistics", "machining", "welding", "cnc",
		"fabrication", "plant operations",
	},
}

// Detect classifies free text into an industry domain using keyword-frequency
// heuristics. Deterministic and side-effect free; ties or low signal yield
// general.
func Detect(text string) models.Domain {
	scores := Scores(text)

	best := models.DomainGeneral
	bestCount := 0
	tied := false

	for domain, count := range scores {
		if count > bestCount {
			best = domain
			bestCount = count
			tied = false
		} else if count == bestCount && count > 0 {
			tied = true
		}
	}

	if tied || bestCount < minKeywordHits {
		return models.DomainGeneral
	}
	return best
}

// Scores returns the raw per-domain keyword counts, useful for debug logging.
func Scores(text string) map[models.Domain]int {
	lower := strings.ToLower(text)

	scores := make(map[models.Domain]int, len(domainKeywords))
	for domain, keywords := range domainKeywords {
		count := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		scores[domain] = count
	}
	return scores
}
