package driven

import (
	"context"
)

// LLMClassification is the strict-JSON classifier fallback result (spec §4.2
// step 6) — called only when rule+keyword scoring leaves confidence below
// domain.LLMFallbackThreshold.
type LLMClassification struct {
	Domain     string
	Category   string
	Confidence float64
}

// LLMService provides large language model capabilities for the classifier
// fallback and for grounded answer generation.
type LLMService interface {
	// Classify asks the model to assign a domain/category to the given text
	// when rule-based classification was inconclusive.
	Classify(ctx context.Context, filename, text string, domains []string) (LLMClassification, error)

	// GenerateAnswer produces a grounded answer to query using only the
	// supplied numbered source passages, per the grounded-prompt contract in
	// spec §4.9 step 8-9 (the model is instructed to refuse if the sources
	// don't answer the question).
	GenerateAnswer(ctx context.Context, query string, sources []string) (string, error)

	// Model returns the model name being used.
	Model() string

	// Ping verifies the LLM service is available.
	Ping(ctx context.Context) error

	// Close releases resources held by the LLM service.
	Close() error
}
