package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// Ensure Reranker implements driven.Reranker
var _ driven.Reranker = (*Reranker)(nil)

// Reranker implements driven.Reranker using Cohere's rerank REST API. There
// is no official Cohere Go SDK in use here, so requests are built by hand
// the same way OpenAIEmbedding talks to OpenAI's REST API.
type Reranker struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewReranker creates a new Cohere-backed reranker.
func NewReranker(apiKey, model, baseURL string, logger *slog.Logger) (*Reranker, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("cohere API key is required")
	}
	if model == "" {
		model = "rerank-english-v3.0"
	}
	if baseURL == "" {
		baseURL = "https://api.cohere.com/v1"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reranker{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 20 * time.Second},
		logger:  logger,
	}, nil
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
	Message string `json:"message,omitempty"`
}

// Rerank scores candidates against query and returns the top k by relevance.
// Per the interface contract, a provider error degrades to the first k
// candidates unscored rather than propagating a failure to the caller.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []driven.RerankCandidate, k int) ([]driven.RerankResult, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if k <= 0 || k > len(candidates) {
		k = len(candidates)
	}

	docs := make([]string, len(candidates))
	for i, c := range candidates {
		docs[i] = c.Text
	}

	resp, err := r.doRequest(ctx, rerankRequest{
		Model:     r.model,
		Query:     query,
		Documents: docs,
		TopN:      k,
	})
	if err != nil {
		r.logger.Warn("cohere rerank unavailable, falling back to unscored order", "error", err)
		return firstKUnscored(candidates, k), nil
	}

	results := make([]driven.RerankResult, 0, len(resp.Results))
	for _, item := range resp.Results {
		if item.Index < 0 || item.Index >= len(candidates) {
			continue
		}
		results = append(results, driven.RerankResult{
			ID:    candidates[item.Index].ID,
			Score: item.RelevanceScore,
		})
	}
	if len(results) == 0 {
		return firstKUnscored(candidates, k), nil
	}
	return results, nil
}

func firstKUnscored(candidates []driven.RerankCandidate, k int) []driven.RerankResult {
	if k > len(candidates) {
		k = len(candidates)
	}
	results := make([]driven.RerankResult, k)
	for i := 0; i < k; i++ {
		results[i] = driven.RerankResult{ID: candidates[i].ID, Score: 0}
	}
	return results
}

func (r *Reranker) doRequest(ctx context.Context, reqBody rerankRequest) (*rerankResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var rerResp rerankResponse
	if err := json.Unmarshal(respBody, &rerResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cohere API returned status %d: %s", resp.StatusCode, rerResp.Message)
	}

	return &rerResp, nil
}

// Close releases resources held by the reranker.
func (r *Reranker) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
