package models

import "time"

// AnalysisResult holds AI-generated weather insight for a target location.
// It is always fully populated: on upstream failure every field carries
// fallback content and Error describes what went wrong. Callers never see a
// partially-shaped result.
type AnalysisResult struct {
	ContextWarnings   []string  `json:"context_warnings"`
	Suggestions       []string  `json:"suggestions"`
	FunFacts          []string  `json:"fun_facts"`
	ClimateComparison string    `json:"climate_comparison"`
	AIGenerated       bool      `json:"ai_generated"`
	Error             string    `json:"error,omitempty"`
	Provider          string    `json:"provider,omitempty"`
	Model             string    `json:"model,omitempty"`
	GeneratedAt       time.Time `json:"generated_at"`
}
