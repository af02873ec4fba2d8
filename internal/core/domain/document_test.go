package domain

import (
	"testing"
	"time"
)

func TestDocument(t *testing.T) {
	now := time.Now()
	doc := &Document{
		ID:           "doc-123",
		Filename:     "report.pdf",
		OriginalPath: "/drop/report.pdf",
		SortedPath:   "/sorted/finance/invoices/report.pdf",
		Domain:       "finance",
		Category:     "invoices",
		Extension:    ".pdf",
		SizeBytes:    2048,
		ContentHash:  "abc123",
		Confidence:   0.92,
		Status:       IngestStatusIndexed,
		UploadedBy:   "user-1",
		Metadata:     map[string]string{"author": "test-user"},
		CreatedAt:    now,
		UpdatedAt:    now,
		IndexedAt:    &now,
	}

	if doc.ID != "doc-123" {
		t.Errorf("expected ID doc-123, got %s", doc.ID)
	}
	if doc.Domain != "finance" {
		t.Errorf("expected Domain finance, got %s", doc.Domain)
	}
	if doc.Category != "invoices" {
		t.Errorf("expected Category invoices, got %s", doc.Category)
	}
	if doc.Status != IngestStatusIndexed {
		t.Errorf("expected Status indexed, got %s", doc.Status)
	}
	if doc.Metadata["author"] != "test-user" {
		t.Errorf("expected author test-user, got %s", doc.Metadata["author"])
	}
	if doc.IndexedAt == nil {
		t.Error("expected IndexedAt to be set")
	}
}

func TestChunk(t *testing.T) {
	now := time.Now()
	embedding := []float32{0.1, 0.2, 0.3}

	chunk := &Chunk{
		ID:          "chunk-123",
		DocumentID:  "doc-456",
		ChunkIndex:  0,
		Content:     "This is the chunk content.",
		StartOffset: 0,
		EndOffset:   26,
		Embedding:   embedding,
		CreatedAt:   now,
	}

	if chunk.ID != "chunk-123" {
		t.Errorf("expected ID chunk-123, got %s", chunk.ID)
	}
	if chunk.DocumentID != "doc-456" {
		t.Errorf("expected DocumentID doc-456, got %s", chunk.DocumentID)
	}
	if chunk.Content != "This is the chunk content." {
		t.Errorf("expected Content 'This is the chunk content.', got %s", chunk.Content)
	}
	if len(chunk.Embedding) != 3 {
		t.Errorf("expected 3 embedding dimensions, got %d", len(chunk.Embedding))
	}
	if chunk.EndOffset != 26 {
		t.Errorf("expected EndOffset 26, got %d", chunk.EndOffset)
	}
}

func TestDocumentWithChunks(t *testing.T) {
	doc := &Document{ID: "doc-123", Domain: "finance", Category: "invoices"}
	chunks := []*Chunk{
		{ID: "chunk-1", DocumentID: "doc-123", Content: "First chunk"},
		{ID: "chunk-2", DocumentID: "doc-123", Content: "Second chunk"},
	}

	docWithChunks := &DocumentWithChunks{
		Document: doc,
		Chunks:   chunks,
	}

	if docWithChunks.Document.ID != "doc-123" {
		t.Errorf("expected Document ID doc-123, got %s", docWithChunks.Document.ID)
	}
	if len(docWithChunks.Chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(docWithChunks.Chunks))
	}
	if docWithChunks.Chunks[0].Content != "First chunk" {
		t.Errorf("expected first chunk content 'First chunk', got %s", docWithChunks.Chunks[0].Content)
	}
}

func TestChunkConfigForSize(t *testing.T) {
	cases := []struct {
		name      string
		sizeBytes int64
		wantTier  ChunkSizeTier
	}{
		{"small file", 1024, ChunkTierSmall},
		{"just under medium threshold", (1 << 20) - 1, ChunkTierSmall},
		{"medium file", 5 << 20, ChunkTierMedium},
		{"large file", 20 << 20, ChunkTierLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := ChunkConfigForSize(tc.sizeBytes)
			if cfg.Tier != tc.wantTier {
				t.Errorf("expected tier %s, got %s", tc.wantTier, cfg.Tier)
			}
			if cfg.MaxChunkSize <= 0 || cfg.Overlap <= 0 {
				t.Errorf("expected positive chunk sizing, got %+v", cfg)
			}
		})
	}
}
