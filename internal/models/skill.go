// internal/models/skill.go
package models

import "strings"

// Domain is an industry domain tag used to scope extraction and contamination
// filtering.
type Domain string

const (
	DomainTechnology     Domain = "technology"
	DomainPharmaceutical Domain = "pharmaceutical"
	DomainFinance        Domain = "finance"
	DomainHealthcare     Domain = "healthcare"
	DomainManufacturing  Domain = "manufacturing"
	DomainGeneral        Domain = "general"
)

// SkillCategory classifies a skill record.
type SkillCategory string

const (
	CategoryTechnical SkillCategory = "technical"
	CategorySoft      SkillCategory = "soft"
	CategoryDomain    SkillCategory = "domain"
)

// ReuseLevel says how broadly a skill applies across industries.
type ReuseLevel string

const (
	ReuseTransversal        ReuseLevel = "transversal"
	ReuseSectorSpecific     ReuseLevel = "sector-specific"
	ReuseOccupationSpecific ReuseLevel = "occupation-specific"
)

// SkillStatus marks the lifecycle state of a taxonomy entry.
type SkillStatus string

const (
	StatusReleased   SkillStatus = "released"
	StatusDeprecated SkillStatus = "deprecated"
)

// SkillRecord is one immutable entry of the skill corpus. Built offline,
// never mutated at query time.
type SkillRecord struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	AltLabels   []string      `json:"altLabels,omitempty"`
	Description string        `json:"description,omitempty"`
	Category    SkillCategory `json:"category"`
	Subcategory string        `json:"subcategory,omitempty"`
	Domain      Domain        `json:"domain"`
	ReuseLevel  ReuseLevel    `json:"reuseLevel"`
	Status      SkillStatus   `json:"status"`
	Version     string        `json:"version,omitempty"`
}

// MatchType describes how a skill was matched against the source text.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchPartial  MatchType = "partial"
	MatchSemantic MatchType = "semantic"
)

// SkillMatch is one ranked extraction hit.
type SkillMatch struct {
	Skill      SkillRecord `json:"skill"`
	MatchScore float64     `json:"matchScore"` // normalized to [0,1]
	MatchType  MatchType   `json:"matchType"`
	Snippet    string      `json:"snippet,omitempty"`
	// LowConfidence marks matches that passed a contamination guard on a
	// fail-open error path.
	LowConfidence bool `json:"lowConfidence,omitempty"`
}

// NormalizedTitle returns the lowercased canonical title.
func (s SkillRecord) NormalizedTitle() string {
	return strings.ToLower(s.Title)
}

// SearchableText returns the lowercased "title + alternative labels" string
// that contamination guard patterns are evaluated against.
func (s SkillRecord) SearchableText() string {
	if len(s.AltLabels) == 0 {
		return strings.ToLower(s.Title)
	}
	return strings.ToLower(s.Title + " " + strings.Join(s.AltLabels, " "))
}
