package mocks

import (
	"context"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// MockReranker is a deterministic Reranker that preserves input order and
// assigns descending synthetic scores, or delegates to RerankFn when set.
type MockReranker struct {
	RerankFn func(query string, candidates []driven.RerankCandidate, k int) []driven.RerankResult
}

func NewMockReranker() *MockReranker {
	return &MockReranker{}
}

func (m *MockReranker) Rerank(ctx context.Context, query string, candidates []driven.RerankCandidate, k int) ([]driven.RerankResult, error) {
	if m.RerankFn != nil {
		return m.RerankFn(query, candidates, k), nil
	}
	n := k
	if n <= 0 || n > len(candidates) {
		n = len(candidates)
	}
	out := make([]driven.RerankResult, n)
	for i := 0; i < n; i++ {
		out[i] = driven.RerankResult{ID: candidates[i].ID, Score: 1.0 - float64(i)*0.1}
	}
	return out, nil
}
