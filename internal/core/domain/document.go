package domain

import "time"

// IngestStatus is the externally observable state of an ingested file.
type IngestStatus string

const (
	IngestStatusPending IngestStatus = "pending"
	IngestStatusIndexed IngestStatus = "indexed"
	IngestStatusFailed  IngestStatus = "failed"
)

// Document represents a file that has been sorted and indexed.
type Document struct {
	ID           string            `json:"id"`
	Filename     string            `json:"filename"`
	OriginalPath string            `json:"original_path"`
	SortedPath   string            `json:"sorted_path,omitempty"`
	Domain       string            `json:"domain"`
	Category     string            `json:"category"`
	Extension    string            `json:"extension"`
	SizeBytes    int64             `json:"size_bytes"`
	ContentHash  string            `json:"content_hash"`
	Confidence   float64           `json:"confidence"`
	Status       IngestStatus      `json:"status"`
	Error        string            `json:"error,omitempty"`
	UploadedBy   string            `json:"uploaded_by"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	IndexedAt    *time.Time        `json:"indexed_at,omitempty"`
}

// Chunk represents a searchable span of a document's extracted text.
type Chunk struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	ChunkIndex  int       `json:"chunk_index"`
	Content     string    `json:"content"`
	StartOffset int       `json:"start_offset"`
	EndOffset   int       `json:"end_offset"`
	Embedding   []float32 `json:"embedding,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DocumentWithChunks combines a document with its indexed chunks.
type DocumentWithChunks struct {
	Document *Document `json:"document"`
	Chunks   []*Chunk  `json:"chunks"`
}

// ChunkSizeTier names the adaptive chunking tier selected by source byte size.
type ChunkSizeTier string

const (
	ChunkTierSmall  ChunkSizeTier = "small"  // < 1MB
	ChunkTierMedium ChunkSizeTier = "medium" // 1MB-10MB
	ChunkTierLarge  ChunkSizeTier = "large"  // > 10MB
)

// ChunkConfig controls chunk/overlap sizing for a tier.
type ChunkConfig struct {
	Tier         ChunkSizeTier
	MaxChunkSize int
	Overlap      int
}

const (
	smallFileThreshold  = 1 << 20  // 1MB
	mediumFileThreshold = 10 << 20 // 10MB
)

// ChunkConfigForSize picks the chunking tier for a given source byte size.
func ChunkConfigForSize(sizeBytes int64) ChunkConfig {
	switch {
	case sizeBytes < smallFileThreshold:
		return ChunkConfig{Tier: ChunkTierSmall, MaxChunkSize: 800, Overlap: 100}
	case sizeBytes < mediumFileThreshold:
		return ChunkConfig{Tier: ChunkTierMedium, MaxChunkSize: 1500, Overlap: 200}
	default:
		return ChunkConfig{Tier: ChunkTierLarge, MaxChunkSize: 3000, Overlap: 300}
	}
}
