// Package models contains shared data models used across the Stratus codebase.
package models

import "context"

// CompletionProvider is the core interface that all LLM integrations must implement.
// Never call specific completion backends directly — always inject this interface.
type CompletionProvider interface {
	// Complete sends a single prompt to the model and returns the raw text of
	// the first completion choice.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Name returns the provider identifier (e.g., "openai", "ollama").
	Name() string
	// Model returns the configured model identifier.
	Model() string
}

// CompletionRequest is the input to a single completion call.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// AnalysisRequest is the input to an AI weather analysis. Immutable once submitted.
type AnalysisRequest struct {
	UserLocation   Location
	TargetLocation Location
	Weather        WeatherSnapshot
}
