package driven

import "context"

// RerankCandidate is a passage to be scored against a query.
type RerankCandidate struct {
	ID   string
	Text string
}

// RerankResult pairs a candidate id with its cross-encoder relevance score.
type RerankResult struct {
	ID    string
	Score float64
}

// Reranker cross-encodes (query, candidate) pairs to produce a relevance
// ordering (spec §4.5). Implementations must degrade to returning the first
// k candidates, unscored, if the provider is unavailable rather than erroring.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []RerankCandidate, k int) ([]RerankResult, error)
}
