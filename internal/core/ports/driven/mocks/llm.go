package mocks

import (
	"context"
	"strings"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// MockLLMService is a deterministic LLMService for testing the classifier
// fallback and query pipeline without a live model.
type MockLLMService struct {
	ClassifyFn func(filename, text string, domains []string) driven.LLMClassification
	AnswerFn   func(query string, sources []string) string
}

func NewMockLLMService() *MockLLMService {
	return &MockLLMService{}
}

func (m *MockLLMService) Classify(ctx context.Context, filename, text string, domains []string) (driven.LLMClassification, error) {
	if m.ClassifyFn != nil {
		return m.ClassifyFn(filename, text, domains), nil
	}
	d := "Technology"
	if len(domains) > 0 {
		d = domains[0]
	}
	return driven.LLMClassification{Domain: d, Category: "Other", Confidence: 0.5}, nil
}

func (m *MockLLMService) GenerateAnswer(ctx context.Context, query string, sources []string) (string, error) {
	if m.AnswerFn != nil {
		return m.AnswerFn(query, sources), nil
	}
	if len(sources) == 0 {
		return "I don't know based on the provided sources.", nil
	}
	return "Based on the sources: " + strings.Join(sources, " "), nil
}

func (m *MockLLMService) Model() string { return "mock-llm" }

func (m *MockLLMService) Ping(ctx context.Context) error { return nil }

func (m *MockLLMService) Close() error { return nil }
