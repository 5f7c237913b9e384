// internal/models/profile.go
package models

// CandidateProfile carries the structured candidate facts the gate engine
// evaluates. Extracted upstream from the resume; this engine never parses
// documents itself.
type CandidateProfile struct {
	Skills          []string `json:"skills"`
	YearsExperience float64  `json:"yearsExperience"`
	Education       []string `json:"education,omitempty"`
	Certifications  []string `json:"certifications,omitempty"`
}

// ScoringContext holds every score produced during one match attempt. Built
// and discarded within a single scoring operation.
type ScoringContext struct {
	RawMLScore      float64  `json:"rawMlScore"`
	RawLLMScore     float64  `json:"rawLlmScore"`
	BiasAdjustedLLM float64  `json:"biasAdjustedLlmScore"`
	GatedMLScore    float64  `json:"gatedMlScore"`
	GatedLLMScore   float64  `json:"gatedLlmScore"`
	BlendedScore    float64  `json:"blendedScore"`
	FinalScore      float64  `json:"finalScore"`
	Confidence      float64  `json:"confidence"`
	ViolatedGates   []string `json:"violatedGates,omitempty"`
	// MLOnly is set when the generative score was unavailable and the blend
	// was renormalized to the statistical side.
	MLOnly bool `json:"mlOnly,omitempty"`
}
