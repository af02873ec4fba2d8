package driven

// EmbeddingConfig configures which embedding provider to construct.
type EmbeddingConfig struct {
	Provider string // "openai"
	APIKey   string
	Model    string
	BaseURL  string
}

// LLMConfig configures which LLM provider to construct.
type LLMConfig struct {
	Provider string // "openai" | "anthropic"
	APIKey   string
	Model    string
	BaseURL  string
}

// AIServiceFactory creates AI services from environment-driven configuration.
type AIServiceFactory interface {
	// CreateEmbeddingService returns nil, nil if cfg.Provider is empty.
	CreateEmbeddingService(cfg EmbeddingConfig) (EmbeddingService, error)

	// CreateLLMService returns nil, nil if cfg.Provider is empty.
	CreateLLMService(cfg LLMConfig) (LLMService, error)
}
