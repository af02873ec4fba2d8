package ai

import (
	"fmt"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// Ensure Factory implements AIServiceFactory
var _ driven.AIServiceFactory = (*Factory)(nil)

// Factory creates AI services from environment-driven configuration.
type Factory struct{}

// NewFactory creates a new AI service factory.
func NewFactory() *Factory {
	return &Factory{}
}

// CreateEmbeddingService returns nil, nil if cfg.Provider is empty.
func (f *Factory) CreateEmbeddingService(cfg driven.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIEmbedding(cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// CreateLLMService returns nil, nil if cfg.Provider is empty.
func (f *Factory) CreateLLMService(cfg driven.LLMConfig) (driven.LLMService, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAILLM(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "anthropic":
		return NewAnthropicLLM(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
