package services

import (
	"context"

	"github.com/custodia-labs/sercha-core/internal/classifier"
	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-core/internal/runtime"
)

var _ driving.ClassifyService = (*classifyService)(nil)

// classifyService exposes the classifier engine directly, e.g. for
// dry-run/admin endpoints that want to preview how a document would be
// routed without ingesting it.
type classifyService struct {
	services *runtime.Services
}

// NewClassifyService creates a new ClassifyService.
func NewClassifyService(services *runtime.Services) driving.ClassifyService {
	return &classifyService{services: services}
}

// Classify runs the full classifier pipeline (spec §4.2): guardrail rules,
// extension shortcut, keyword scoring, then an LLM fallback when the
// rule-based confidence is low and a language model is available.
func (s *classifyService) Classify(ctx context.Context, filename, text string) (domain.Classification, error) {
	llm := s.services.LLMService()
	return classifier.ClassifyWithFallback(ctx, llm, filename, text), nil
}
