package driving

import (
	"context"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// DocumentService provides read-only, RBAC-aware access to documents.
type DocumentService interface {
	// Get retrieves a document by ID if the caller's role may see it.
	Get(ctx context.Context, callerRole *domain.Role, id string) (*domain.Document, error)

	// GetWithChunks retrieves a document with its chunks.
	GetWithChunks(ctx context.Context, callerRole *domain.Role, id string) (*domain.DocumentWithChunks, error)

	// List retrieves documents matching a filter, restricted to what the
	// caller's role may see.
	List(ctx context.Context, callerRole *domain.Role, filter driven.DocumentFilter) ([]*domain.Document, error)

	// Count returns the number of documents visible to the caller's role.
	Count(ctx context.Context, callerRole *domain.Role, filter driven.DocumentFilter) (int, error)

	// Duplicates returns groups of documents sharing a content hash.
	Duplicates(ctx context.Context, callerRole *domain.Role) (map[string][]*domain.Document, error)

	// DeleteDuplicates removes every document in a duplicate group but the
	// first, deindexing and untracking each removed copy.
	DeleteDuplicates(ctx context.Context, callerRole *domain.Role, contentHash string) (int, error)

	// Delete removes a document: deindex, unlink from the sorted tree, and
	// clear its tracker record, subject to files.delete.own/files.delete.all.
	Delete(ctx context.Context, caller *domain.AuthContext, id string) error
}
