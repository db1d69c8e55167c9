package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stratuslabs/stratus/internal/ai"
	"github.com/stratuslabs/stratus/internal/ai/mock"
	"github.com/stratuslabs/stratus/pkg/models"
)

func testRequest() models.AnalysisRequest {
	return models.AnalysisRequest{
		UserLocation:   models.Location{Name: "Seattle", Lat: 47.6, Lon: -122.3},
		TargetLocation: models.Location{Name: "Phoenix", Lat: 33.4, Lon: -112.1},
		Weather: models.WeatherSnapshot{
			Current: models.CurrentConditions{TempF: 104, Humidity: 12, Description: "clear sky"},
			Forecast: []models.ForecastDay{
				{Date: "2025-07-15", HighF: 108, LowF: 84, Description: "sunny"},
			},
		},
	}
}

func TestRun_Success(t *testing.T) {
	provider := mock.NewMockProvider()
	a := NewAnalyzer(provider, 30*time.Second)

	result := a.Run(context.Background(), testRequest())

	if !result.AIGenerated {
		t.Error("expected ai_generated=true on success")
	}
	if result.Error != "" {
		t.Errorf("expected no error, got %q", result.Error)
	}
	if result.Provider != "mock" || result.Model != "mock-v1" {
		t.Errorf("expected provider attribution, got %s/%s", result.Provider, result.Model)
	}
	if result.GeneratedAt.IsZero() {
		t.Error("expected a generation timestamp")
	}
	if len(result.ContextWarnings) == 0 || result.ClimateComparison == "" {
		t.Errorf("expected combined-call content, got %+v", result)
	}
	if len(result.Suggestions) == 0 || len(result.FunFacts) == 0 {
		t.Errorf("expected list content, got %+v", result)
	}
}

func TestRun_CallsAreSequentialAndOrdered(t *testing.T) {
	provider := mock.NewMockProvider()
	a := NewAnalyzer(provider, 30*time.Second)

	a.Run(context.Background(), testRequest())

	if len(provider.Requests) != 3 {
		t.Fatalf("expected 3 completion calls, got %d", len(provider.Requests))
	}
	wantSystems := []string{ai.ContextSystem, ai.SuggestionsSystem, ai.FactsSystem}
	for i, want := range wantSystems {
		if provider.Requests[i].System != want {
			t.Errorf("call %d: expected system %q, got %q", i, want, provider.Requests[i].System)
		}
	}

	wantTokens := []int{ai.ContextMaxTokens, ai.SuggestionsMaxTokens, ai.FactsMaxTokens}
	for i, want := range wantTokens {
		if provider.Requests[i].MaxTokens != want {
			t.Errorf("call %d: expected max tokens %d, got %d", i, want, provider.Requests[i].MaxTokens)
		}
	}
}

func TestRun_AllCallsFail(t *testing.T) {
	provider := mock.NewFailingProvider(models.ErrProviderUnavailable)
	a := NewAnalyzer(provider, 30*time.Second)

	result := a.Run(context.Background(), testRequest())

	if result.AIGenerated {
		t.Error("expected ai_generated=false when every call fails")
	}
	if result.Error == "" {
		t.Error("expected an error message when every call fails")
	}
	// Still fully shaped: the dashboard renders this directly.
	if result.ContextWarnings == nil {
		t.Error("context_warnings must be non-nil")
	}
	if len(result.Suggestions) == 0 {
		t.Error("expected fallback suggestions")
	}
	if len(result.FunFacts) == 0 {
		t.Error("expected fallback facts")
	}
	if result.ClimateComparison == "" {
		t.Error("expected fallback comparison")
	}
}

func TestRun_PartialFailureKeepsAIGenerated(t *testing.T) {
	calls := 0
	provider := &mock.MockProvider{
		Name_:  "mock",
		Model_: "mock-v1",
		CompleteFunc: func(_ context.Context, _ models.CompletionRequest) (string, error) {
			calls++
			if calls == 1 {
				return "", models.ErrInferenceTimeout
			}
			return `["item one", "item two"]`, nil
		},
	}
	a := NewAnalyzer(provider, 30*time.Second)

	result := a.Run(context.Background(), testRequest())

	if !result.AIGenerated {
		t.Error("a single failed call must not degrade the whole result")
	}
	if result.Error != "" {
		t.Errorf("partial success carries no error, got %q", result.Error)
	}
	// The failed combined call falls back; the list calls succeed.
	if len(result.ContextWarnings) == 0 {
		t.Error("expected fallback warnings for the failed combined call")
	}
	if result.Suggestions[0] != "item one" {
		t.Errorf("expected real suggestions, got %v", result.Suggestions)
	}
}

func TestRun_UnparseableResponseFallsBack(t *testing.T) {
	provider := &mock.MockProvider{
		Name_: "mock",
		CompleteFunc: func(_ context.Context, _ models.CompletionRequest) (string, error) {
			return "I am unable to produce JSON today.", nil
		},
	}
	a := NewAnalyzer(provider, 30*time.Second)

	result := a.Run(context.Background(), testRequest())

	// Parse failures are not call failures: the result stays ai_generated.
	if !result.AIGenerated {
		t.Error("parse failures must not mark the result degraded")
	}
	if len(result.ContextWarnings) == 0 || len(result.Suggestions) == 0 || len(result.FunFacts) == 0 {
		t.Errorf("expected parse fallbacks everywhere, got %+v", result)
	}
}

func TestRun_FencedResponsesAreExtracted(t *testing.T) {
	calls := 0
	provider := &mock.MockProvider{
		Name_: "mock",
		CompleteFunc: func(_ context.Context, _ models.CompletionRequest) (string, error) {
			calls++
			if calls == 1 {
				return "Here you go:\n```json\n{\"context_warnings\": [\"bring sunscreen\"], \"climate_comparison\": \"hotter\"}\n```", nil
			}
			return "```\n[\"from a fence\"]\n```", nil
		},
	}
	a := NewAnalyzer(provider, 30*time.Second)

	result := a.Run(context.Background(), testRequest())

	if result.ContextWarnings[0] != "bring sunscreen" {
		t.Errorf("expected fenced warnings extracted, got %v", result.ContextWarnings)
	}
	if result.ClimateComparison != "hotter" {
		t.Errorf("expected fenced comparison, got %q", result.ClimateComparison)
	}
	if result.Suggestions[0] != "from a fence" {
		t.Errorf("expected fenced list extracted, got %v", result.Suggestions)
	}
}

func TestRun_EmptyListFallsBack(t *testing.T) {
	provider := &mock.MockProvider{
		Name_: "mock",
		CompleteFunc: func(_ context.Context, _ models.CompletionRequest) (string, error) {
			return `[]`, nil
		},
	}
	a := NewAnalyzer(provider, 30*time.Second)

	result := a.Run(context.Background(), testRequest())

	if len(result.Suggestions) == 0 || len(result.FunFacts) == 0 {
		t.Error("an empty model list must fall back to defaults")
	}
}

func TestRun_TimeoutBoundsEachCall(t *testing.T) {
	provider := mock.NewTimeoutProvider()
	a := NewAnalyzer(provider, 30*time.Millisecond)

	start := time.Now()
	result := a.Run(context.Background(), testRequest())
	elapsed := time.Since(start)

	// Three sequential calls, each bounded independently.
	if elapsed > 3*time.Second {
		t.Errorf("timeouts should bound each call, run took %v", elapsed)
	}
	if result.AIGenerated {
		t.Error("expected degraded result when every call times out")
	}
	if len(provider.Requests) != 3 {
		t.Errorf("all three calls should be attempted, got %d", len(provider.Requests))
	}
}
