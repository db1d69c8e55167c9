package analysis

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/stratuslabs/stratus/internal/ai"
	"github.com/stratuslabs/stratus/pkg/models"
)

// Fallback content. Every failure mode still yields a fully-shaped result;
// the dashboard renders these instead of an error screen.
var (
	fallbackContextWarnings = []string{"Weather conditions may differ from your usual climate"}
	fallbackComparison      = "Climate differences may affect how weather feels"

	fallbackSuggestionsParse = []string{
		"Check the weather before planning outdoor activities",
		"Dress appropriately for the conditions",
	}
	fallbackSuggestionsError = []string{"Stay updated with local weather conditions"}

	fallbackFactsParse = []string{"Weather patterns can vary significantly throughout the day"}
	fallbackFactsError = []string{"Weather conditions change throughout the day"}

	degradedSuggestions = []string{"Check local weather updates"}
	degradedFacts       = []string{"Weather patterns vary by location"}
	degradedComparison  = "Climate differences may affect weather perception"
)

// degradedResult is the all-failed shape: ai_generated false, error
// populated, safe fallback content everywhere.
func degradedResult(errMsg string) models.AnalysisResult {
	return models.AnalysisResult{
		ContextWarnings:   []string{},
		Suggestions:       degradedSuggestions,
		FunFacts:          degradedFacts,
		ClimateComparison: degradedComparison,
		AIGenerated:       false,
		Error:             errMsg,
		GeneratedAt:       time.Now().UTC(),
	}
}

// Analyzer turns an AnalysisRequest into an AnalysisResult via three
// completion calls: the combined context analysis, the suggestions list, and
// the fun facts list. Calls run sequentially in that order. Each section
// degrades independently; only when all three calls fail does the result
// carry ai_generated=false and an error string.
type Analyzer struct {
	provider models.CompletionProvider
	timeout  time.Duration
}

// NewAnalyzer creates an Analyzer. The timeout bounds each completion call.
func NewAnalyzer(provider models.CompletionProvider, timeout time.Duration) *Analyzer {
	return &Analyzer{provider: provider, timeout: timeout}
}

// contextPayload is the shape expected from the combined context call. Only
// warnings and the comparison are consumed; the dedicated calls supersede the
// suggestion and fact keys.
type contextPayload struct {
	ContextWarnings   []string `json:"context_warnings"`
	ClimateComparison string   `json:"climate_comparison"`
}

// Run never errors and never panics by contract: every failure folds into the
// returned result.
func (a *Analyzer) Run(ctx context.Context, req models.AnalysisRequest) models.AnalysisResult {
	var callErrs []string

	warnings, comparison, err := a.runContext(ctx, req)
	if err != nil {
		callErrs = append(callErrs, err.Error())
	}

	suggestions, err := a.runSuggestions(ctx, req)
	if err != nil {
		callErrs = append(callErrs, err.Error())
	}

	facts, err := a.runFacts(ctx, req)
	if err != nil {
		callErrs = append(callErrs, err.Error())
	}

	if len(callErrs) == 3 {
		slog.Error("all analysis completions failed", "provider", a.provider.Name(),
			"errors", strings.Join(callErrs, "; "))
		return degradedResult(strings.Join(callErrs, "; "))
	}

	return models.AnalysisResult{
		ContextWarnings:   warnings,
		Suggestions:       suggestions,
		FunFacts:          facts,
		ClimateComparison: comparison,
		AIGenerated:       true,
		Provider:          a.provider.Name(),
		Model:             a.provider.Model(),
		GeneratedAt:       time.Now().UTC(),
	}
}

func (a *Analyzer) runContext(ctx context.Context, req models.AnalysisRequest) ([]string, string, error) {
	text, err := a.complete(ctx, models.CompletionRequest{
		System:      ai.ContextSystem,
		Prompt:      ai.BuildContextPrompt(req),
		MaxTokens:   ai.ContextMaxTokens,
		Temperature: ai.ContextTemperature,
	})
	if err != nil {
		return fallbackContextWarnings, fallbackComparison, err
	}

	raw, ok := ai.ExtractJSON(text)
	if !ok {
		return fallbackContextWarnings, fallbackComparison, nil
	}

	var payload contextPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fallbackContextWarnings, fallbackComparison, nil
	}

	warnings := payload.ContextWarnings
	if warnings == nil {
		warnings = fallbackContextWarnings
	}
	comparison := payload.ClimateComparison
	if comparison == "" {
		comparison = fallbackComparison
	}
	return warnings, comparison, nil
}

func (a *Analyzer) runSuggestions(ctx context.Context, req models.AnalysisRequest) ([]string, error) {
	text, err := a.complete(ctx, models.CompletionRequest{
		System:      ai.SuggestionsSystem,
		Prompt:      ai.BuildSuggestionsPrompt(req),
		MaxTokens:   ai.SuggestionsMaxTokens,
		Temperature: ai.SuggestionsTemperature,
	})
	if err != nil {
		return fallbackSuggestionsError, err
	}

	list, ok := ai.ExtractStringList(text)
	if !ok || len(list) == 0 {
		return fallbackSuggestionsParse, nil
	}
	return list, nil
}

func (a *Analyzer) runFacts(ctx context.Context, req models.AnalysisRequest) ([]string, error) {
	text, err := a.complete(ctx, models.CompletionRequest{
		System:      ai.FactsSystem,
		Prompt:      ai.BuildFactsPrompt(req),
		MaxTokens:   ai.FactsMaxTokens,
		Temperature: ai.FactsTemperature,
	})
	if err != nil {
		return fallbackFactsError, err
	}

	list, ok := ai.ExtractStringList(text)
	if !ok || len(list) == 0 {
		return fallbackFactsParse, nil
	}
	return list, nil
}

func (a *Analyzer) complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.provider.Complete(callCtx, req)
}

var _ Runner = (*Analyzer)(nil)
