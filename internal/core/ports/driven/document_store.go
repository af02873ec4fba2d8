package driven

import (
	"context"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
)

// DocumentFilter narrows a document listing by the predicates exposed on
// the sorted tree (domain/category/extension) and by upload ownership.
type DocumentFilter struct {
	Domain     string
	Category   string
	Extension  string
	UploadedBy string
	Limit      int
	Offset     int
}

// DocumentStore handles document persistence (PostgreSQL).
type DocumentStore interface {
	// Save creates or updates a document.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetByHash retrieves a document by its content hash (dedup check).
	GetByHash(ctx context.Context, hash string) (*domain.Document, error)

	// GetBySortedPath retrieves a document by its location in the sorted tree.
	GetBySortedPath(ctx context.Context, path string) (*domain.Document, error)

	// List retrieves documents matching the filter.
	List(ctx context.Context, filter DocumentFilter) ([]*domain.Document, error)

	// Delete deletes a document.
	Delete(ctx context.Context, id string) error

	// DeleteBatch deletes multiple documents by ID.
	DeleteBatch(ctx context.Context, ids []string) error

	// Count returns the total document count, optionally filtered.
	Count(ctx context.Context, filter DocumentFilter) (int, error)

	// Duplicates returns groups of documents sharing a content hash.
	Duplicates(ctx context.Context) (map[string][]*domain.Document, error)
}

// ChunkStore handles chunk persistence (PostgreSQL).
type ChunkStore interface {
	// SaveBatch saves a document's chunks in a transaction.
	SaveBatch(ctx context.Context, chunks []*domain.Chunk) error

	// GetByDocument retrieves all chunks for a document, ordered by index.
	GetByDocument(ctx context.Context, documentID string) ([]*domain.Chunk, error)

	// DeleteByDocument deletes all chunks for a document.
	DeleteByDocument(ctx context.Context, documentID string) error
}
