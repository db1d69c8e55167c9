package ai

import (
	"fmt"

	"github.com/stratuslabs/stratus/internal/ai/anthropic"
	"github.com/stratuslabs/stratus/internal/ai/ollama"
	"github.com/stratuslabs/stratus/internal/ai/openai"
	"github.com/stratuslabs/stratus/internal/config"
	"github.com/stratuslabs/stratus/pkg/models"
)

// NewProvider constructs the appropriate completion provider based on config.
// Called once at server startup; a missing credential fails here, never
// inside the analysis path.
func NewProvider(cfg config.AIConfig) (models.CompletionProvider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewProvider(cfg.Ollama, cfg.InferenceTimeout), nil
	case "openai":
		return openai.NewProvider(cfg.OpenAI, cfg.InferenceTimeout)
	case "anthropic":
		return anthropic.NewProvider(cfg.Anthropic, cfg.InferenceTimeout)
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of ollama, openai, anthropic", cfg.Provider)
	}
}
