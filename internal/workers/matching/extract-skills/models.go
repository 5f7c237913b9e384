// internal/workers/matching/extract-skills/models.go
package extractskills

import "talentmatch-workers/internal/models"

type Input struct {
	Text       string  `json:"text"`
	Domain     string  `json:"domain,omitempty"`
	MaxResults int     `json:"maxResults,omitempty"`
	MinScore   float64 `json:"minScore,omitempty"`
}

type Output struct {
	Success     bool                `json:"success"`
	Skills      []models.SkillMatch `json:"skills"`
	TotalSkills int                 `json:"totalSkills"`
	Domains     []string            `json:"domains"`
	Domain      string              `json:"domain"`
	Blocked     int                 `json:"blocked"`
	Flagged     int                 `json:"flagged"`
	Error       string              `json:"error,omitempty"`
	ElapsedMS   int64               `json:"elapsedMs"`
}
