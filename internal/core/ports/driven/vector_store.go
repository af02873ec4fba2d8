package driven

import "context"

// VectorChunk is a chunk plus its embedding, ready to be added to the index.
type VectorChunk struct {
	ChunkID    string
	DocumentID string
	Content    string
	Embedding  []float32
	Metadata   map[string]string
}

// VectorMatch is a single kNN hit.
type VectorMatch struct {
	ChunkID    string
	DocumentID string
	Content    string
	Distance   float64
	Metadata   map[string]string
}

// VectorStore is the content-addressed chunk index (spec §4.4). Both the
// embedded sqlite-vec backend and the qdrant backend implement it.
type VectorStore interface {
	// Add upserts chunks into the index; re-adding a chunk_id overwrites it
	// (idempotent per spec §4.4).
	Add(ctx context.Context, chunks []VectorChunk) error

	// Query returns the n nearest neighbours to queryEmbedding.
	Query(ctx context.Context, queryEmbedding []float32, n int) ([]VectorMatch, error)

	// Get returns chunk ids matching a metadata predicate (e.g. document_id=X).
	Get(ctx context.Context, where map[string]string) ([]VectorMatch, error)

	// Delete removes chunks by id, by predicate, or both (OR semantics
	// between the two, matching spec §4.4's delete(ids|where)).
	Delete(ctx context.Context, ids []string, where map[string]string) error

	// Count returns the total number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
