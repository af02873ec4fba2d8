package driving

import (
	"context"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
)

// QueryService runs the grounded-answer retrieval pipeline (spec §4.9).
type QueryService interface {
	// Query answers req.Query using only documents visible to caller's role,
	// per the ten-step pipeline: language detection, whole-file bypass, kNN,
	// RBAC filter, rerank, noise floor, grounded prompt, LLM call, refusal
	// detection, confidence scoring.
	Query(ctx context.Context, caller *domain.AuthContext, req domain.QueryRequest) (*domain.QueryResult, error)
}

// ClassifyService exposes the classifier directly (e.g. for dry-run/admin use).
type ClassifyService interface {
	Classify(ctx context.Context, filename, text string) (domain.Classification, error)
}
