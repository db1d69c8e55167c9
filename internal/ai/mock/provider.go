// Package mock provides a models.CompletionProvider for tests.
package mock

import (
	"context"

	"github.com/stratuslabs/stratus/pkg/models"
)

// MockProvider satisfies models.CompletionProvider for testing.
type MockProvider struct {
	Name_        string
	Model_       string
	CompleteFunc func(ctx context.Context, req models.CompletionRequest) (string, error)

	// Requests records every request received, in order. Guarded by nothing;
	// the analyzer issues its calls sequentially.
	Requests []models.CompletionRequest
}

func (m *MockProvider) Name() string {
	if m.Name_ == "" {
		return "mock"
	}
	return m.Name_
}

func (m *MockProvider) Model() string {
	if m.Model_ == "" {
		return "mock-v1"
	}
	return m.Model_
}

func (m *MockProvider) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "", nil
}

// NewMockProvider returns a MockProvider whose responses parse cleanly: a
// combined-analysis object for the first call and string arrays afterwards.
func NewMockProvider() *MockProvider {
	p := &MockProvider{Name_: "mock", Model_: "mock-v1"}
	p.CompleteFunc = func(_ context.Context, _ models.CompletionRequest) (string, error) {
		if len(p.Requests) == 1 {
			return `{"context_warnings":["Pack for heat"],"suggestions":["Hydrate often"],"fun_facts":["Deserts cool fast at night"],"climate_comparison":"Hotter and far drier than home"}`, nil
		}
		return `["Plan outdoor time for the morning","Wear light layers"]`, nil
	}
	return p
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_: "mock-failing",
		CompleteFunc: func(_ context.Context, _ models.CompletionRequest) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock-timeout",
		CompleteFunc: func(ctx context.Context, _ models.CompletionRequest) (string, error) {
			<-ctx.Done()
			return "", models.ErrInferenceTimeout
		},
	}
}

// Compile-time check that MockProvider implements CompletionProvider.
var _ models.CompletionProvider = (*MockProvider)(nil)
