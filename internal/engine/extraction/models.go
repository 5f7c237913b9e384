// internal/engine/extraction/models.go
package extraction

import "talentmatch-workers/internal/models"

// Result is the envelope returned for every extraction call. A corpus
// failure yields Success=false with the elapsed time; it never surfaces as
// an error to the caller.
type Result struct {
	Success     bool                `json:"success"`
	Skills      []models.SkillMatch `json:"skills"`
	TotalSkills int                 `json:"totalSkills"`
	Domains     []string            `json:"domains"`
	Blocked     int                 `json:"blocked"`
	Flagged     int                 `json:"flagged"`
	Reasons     []string            `json:"reasons,omitempty"`
	Error       string              `json:"error,omitempty"`
	ElapsedMS   int64               `json:"elapsedMs"`
	Cached      bool                `json:"cached,omitempty"`
}
