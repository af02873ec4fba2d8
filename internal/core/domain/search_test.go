package domain

import (
	"testing"
	"time"
)

func TestLabelForConfidence(t *testing.T) {
	cases := []struct {
		score float64
		want  ConfidenceLabel
	}{
		{90, ConfidenceHigh},
		{75, ConfidenceHigh},
		{60, ConfidenceMedium},
		{40, ConfidenceMedium},
		{10, ConfidenceLow},
		{0, ConfidenceLow},
	}

	for _, tc := range cases {
		if got := LabelForConfidence(tc.score); got != tc.want {
			t.Errorf("LabelForConfidence(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestRetrievedChunk(t *testing.T) {
	chunk := &Chunk{ID: "chunk-1", Content: "test content"}
	doc := &Document{ID: "doc-1", Domain: "finance", Category: "invoices"}

	retrieved := &RetrievedChunk{
		Chunk:    chunk,
		Document: doc,
		Distance: 0.2,
	}

	if retrieved.Chunk.ID != "chunk-1" {
		t.Errorf("expected chunk ID chunk-1, got %s", retrieved.Chunk.ID)
	}
	if retrieved.Document.ID != "doc-1" {
		t.Errorf("expected document ID doc-1, got %s", retrieved.Document.ID)
	}
	if retrieved.Distance != 0.2 {
		t.Errorf("expected distance 0.2, got %f", retrieved.Distance)
	}
}

func TestRankedChunk(t *testing.T) {
	chunk := &Chunk{ID: "chunk-1", DocumentID: "doc-1", Content: "test content"}
	doc := &Document{ID: "doc-1", Domain: "finance", Category: "invoices"}

	ranked := &RankedChunk{
		Chunk:          chunk,
		Document:       doc,
		Distance:       0.2,
		RelevanceScore: 0.95,
	}

	if ranked.Chunk.ID != "chunk-1" {
		t.Errorf("expected chunk ID chunk-1, got %s", ranked.Chunk.ID)
	}
	if ranked.Document.ID != "doc-1" {
		t.Errorf("expected document ID doc-1, got %s", ranked.Document.ID)
	}
	if ranked.RelevanceScore != 0.95 {
		t.Errorf("expected relevance score 0.95, got %f", ranked.RelevanceScore)
	}
}

func TestQueryResult(t *testing.T) {
	sources := []*RankedChunk{
		{Chunk: &Chunk{ID: "chunk-1", Content: "test content"}, RelevanceScore: 0.95},
		{Chunk: &Chunk{ID: "chunk-2", Content: "more content"}, RelevanceScore: 0.85},
	}

	result := &QueryResult{
		Query:           "what is the refund policy",
		Answer:          "refunds are processed within 30 days",
		Outcome:         QueryOutcomeAnswered,
		Sources:         sources,
		Confidence:      82,
		ConfidenceLabel: LabelForConfidence(82),
		Language:        "en",
		Took:            100 * time.Millisecond,
	}

	if result.Outcome != QueryOutcomeAnswered {
		t.Errorf("expected outcome answered, got %s", result.Outcome)
	}
	if len(result.Sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(result.Sources))
	}
	if result.ConfidenceLabel != ConfidenceHigh {
		t.Errorf("expected confidence label HIGH, got %s", result.ConfidenceLabel)
	}
}

func TestQueryOutcomeConstants(t *testing.T) {
	if QueryOutcomeAnswered != "answered" {
		t.Errorf("expected QueryOutcomeAnswered = 'answered', got %s", QueryOutcomeAnswered)
	}
	if QueryOutcomeNoResults != "no_results" {
		t.Errorf("expected QueryOutcomeNoResults = 'no_results', got %s", QueryOutcomeNoResults)
	}
	if QueryOutcomeAccessDenied != "access_denied" {
		t.Errorf("expected QueryOutcomeAccessDenied = 'access_denied', got %s", QueryOutcomeAccessDenied)
	}
	if QueryOutcomeRefused != "refused" {
		t.Errorf("expected QueryOutcomeRefused = 'refused', got %s", QueryOutcomeRefused)
	}
}

func TestQueryTuningConstants(t *testing.T) {
	if QueryKNNCandidates <= 0 {
		t.Errorf("expected positive KNN candidate count, got %d", QueryKNNCandidates)
	}
	if QueryRerankTopK <= 0 || QueryRerankTopK > QueryKNNCandidates {
		t.Errorf("expected rerank top-k within [1, %d], got %d", QueryKNNCandidates, QueryRerankTopK)
	}
}
