package cohere

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

func TestNewReranker_RequiresAPIKey(t *testing.T) {
	_, err := NewReranker("", "", "", nil)
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestNewReranker_Defaults(t *testing.T) {
	r, err := NewReranker("key", "", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.model != "rerank-english-v3.0" {
		t.Errorf("expected default model, got %s", r.model)
	}
	if r.baseURL != "https://api.cohere.com/v1" {
		t.Errorf("expected default base URL, got %s", r.baseURL)
	}
}

func candidates() []driven.RerankCandidate {
	return []driven.RerankCandidate{
		{ID: "a", Text: "apples are red"},
		{ID: "b", Text: "bananas are yellow"},
		{ID: "c", Text: "cherries are red too"},
	}
}

func TestReranker_Rerank_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rerank" {
			t.Errorf("expected /rerank, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Error("expected Authorization header")
		}

		var req rerankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Documents) != 3 {
			t.Errorf("expected 3 documents, got %d", len(req.Documents))
		}

		resp := rerankResponse{
			Results: []struct {
				Index          int     `json:"index"`
				RelevanceScore float64 `json:"relevance_score"`
			}{
				{Index: 2, RelevanceScore: 0.9},
				{Index: 0, RelevanceScore: 0.4},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	r, err := NewReranker("key", "", server.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := r.Rerank(context.Background(), "red fruit", candidates(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "c" || results[0].Score != 0.9 {
		t.Errorf("unexpected top result: %+v", results[0])
	}
	if results[1].ID != "a" {
		t.Errorf("unexpected second result: %+v", results[1])
	}
}

func TestReranker_Rerank_DegradesOnProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r, err := NewReranker("key", "", server.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := r.Rerank(context.Background(), "query", candidates(), 2)
	if err != nil {
		t.Fatalf("expected degraded result, not an error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 unscored results, got %d", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "b" {
		t.Errorf("expected first-k unscored fallback, got %+v", results)
	}
	for _, res := range results {
		if res.Score != 0 {
			t.Errorf("expected unscored fallback, got score %f", res.Score)
		}
	}
}

func TestReranker_Rerank_EmptyCandidates(t *testing.T) {
	r, err := NewReranker("key", "", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results, err := r.Rerank(context.Background(), "query", nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results for no candidates, got %v", results)
	}
}

func TestReranker_Rerank_KClampedToLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rerankRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.TopN != len(candidates()) {
			t.Errorf("expected top_n clamped to %d, got %d", len(candidates()), req.TopN)
		}
		_ = json.NewEncoder(w).Encode(rerankResponse{})
	}))
	defer server.Close()

	r, err := NewReranker("key", "", server.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// k larger than candidate count and k <= 0 both clamp.
	if _, err := r.Rerank(context.Background(), "q", candidates(), 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
