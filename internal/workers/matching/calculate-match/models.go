// internal/workers/matching/calculate-match/models.go
package calculatematch

import (
	"talentmatch-workers/internal/engine/gates"
	"talentmatch-workers/internal/models"
)

type Input struct {
	ResumeText       string                  `json:"resumeText"`
	JobText          string                  `json:"jobText"`
	CandidateProfile models.CandidateProfile `json:"candidateProfile"`
	Requirements     gates.Requirements      `json:"requirements"`
}

type Output struct {
	Success       bool                  `json:"success"`
	MatchScore    float64               `json:"matchScore"`
	Scores        models.ScoringContext `json:"scores"`
	Domain        string                `json:"domain"`
	SimilarityPct float64               `json:"similarityPct"`
	ResumeSkills  int                   `json:"resumeSkills"`
	JobSkills     int                   `json:"jobSkills"`
	Strengths     []string              `json:"strengths,omitempty"`
	Gaps          []string              `json:"gaps,omitempty"`
	AuditID       string                `json:"auditId,omitempty"`
	ElapsedMS     int64                 `json:"elapsedMs"`
}
