package services

import (
	"context"
	"log/slog"
	"os"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driving"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

// documentService implements the DocumentService interface (spec §4.3/§4.6).
type documentService struct {
	documentStore driven.DocumentStore
	chunkStore    driven.ChunkStore
	vectorStore   driven.VectorStore
	kvStore       driven.KVStore
	uploadStore   driven.UploadStore
	logger        *slog.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	documentStore driven.DocumentStore,
	chunkStore driven.ChunkStore,
	vectorStore driven.VectorStore,
	kvStore driven.KVStore,
	uploadStore driven.UploadStore,
	logger *slog.Logger,
) driving.DocumentService {
	return &documentService{
		documentStore: documentStore,
		chunkStore:    chunkStore,
		vectorStore:   vectorStore,
		kvStore:       kvStore,
		uploadStore:   uploadStore,
		logger:        logger,
	}
}

// Get retrieves a document by ID if the caller's role may see it.
func (s *documentService) Get(ctx context.Context, callerRole *domain.Role, id string) (*domain.Document, error) {
	doc, err := s.documentStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanSeeDocument(callerRole, doc) {
		return nil, domain.ErrAccessDenied
	}
	return doc, nil
}

// GetWithChunks retrieves a document with its chunks.
func (s *documentService) GetWithChunks(ctx context.Context, callerRole *domain.Role, id string) (*domain.DocumentWithChunks, error) {
	doc, err := s.Get(ctx, callerRole, id)
	if err != nil {
		return nil, err
	}

	chunks, err := s.chunkStore.GetByDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.DocumentWithChunks{
		Document: doc,
		Chunks:   chunks,
	}, nil
}

// List retrieves documents matching a filter, restricted to what the
// caller's role may see.
func (s *documentService) List(ctx context.Context, callerRole *domain.Role, filter driven.DocumentFilter) ([]*domain.Document, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	docs, err := s.documentStore.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	visible := make([]*domain.Document, 0, len(docs))
	for _, doc := range docs {
		if CanSeeDocument(callerRole, doc) {
			visible = append(visible, doc)
		}
	}
	return visible, nil
}

// Count returns the number of documents visible to the caller's role.
//
// The underlying store counts without RBAC awareness, so a role scoped to a
// subset of domains/categories is counted by listing and filtering rather
// than trusting the store's aggregate — the unrestricted Admin path short
// circuits to the cheap store count.
func (s *documentService) Count(ctx context.Context, callerRole *domain.Role, filter driven.DocumentFilter) (int, error) {
	if callerRole != nil && callerRole.FilePermissions != nil &&
		callerRole.FilePermissions.AllowsAllDomains() && callerRole.FilePermissions.AllowsAllCategories() {
		return s.documentStore.Count(ctx, filter)
	}

	listFilter := filter
	listFilter.Limit = 0
	listFilter.Offset = 0
	docs, err := s.List(ctx, callerRole, listFilter)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Duplicates returns groups of documents sharing a content hash, restricted
// to what the caller's role may see.
func (s *documentService) Duplicates(ctx context.Context, callerRole *domain.Role) (map[string][]*domain.Document, error) {
	groups, err := s.documentStore.Duplicates(ctx)
	if err != nil {
		return nil, err
	}

	visible := make(map[string][]*domain.Document, len(groups))
	for hash, docs := range groups {
		var kept []*domain.Document
		for _, doc := range docs {
			if CanSeeDocument(callerRole, doc) {
				kept = append(kept, doc)
			}
		}
		if len(kept) > 1 {
			visible[hash] = kept
		}
	}
	return visible, nil
}

// DeleteDuplicates removes every document in a duplicate group but the
// first, deindexing and untracking each removed copy.
func (s *documentService) DeleteDuplicates(ctx context.Context, callerRole *domain.Role, contentHash string) (int, error) {
	groups, err := s.documentStore.Duplicates(ctx)
	if err != nil {
		return 0, err
	}

	docs, ok := groups[contentHash]
	if !ok || len(docs) < 2 {
		return 0, nil
	}
	for _, doc := range docs {
		if !CanSeeDocument(callerRole, doc) {
			return 0, domain.ErrAccessDenied
		}
	}

	removed := 0
	for _, doc := range docs[1:] {
		if err := s.deindex(ctx, doc); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Delete removes a document: deindex, unlink from the sorted tree, and
// clear its tracker record, subject to files.delete.own/files.delete.all.
func (s *documentService) Delete(ctx context.Context, caller *domain.AuthContext, id string) error {
	doc, err := s.documentStore.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanSeeDocument(caller.Role, doc) {
		return domain.ErrAccessDenied
	}

	owned := doc.UploadedBy == caller.UserID
	canDeleteAll := caller.HasCapability(domain.CapFilesDeleteAll)
	canDeleteOwn := caller.HasCapability(domain.CapFilesDeleteOwn)
	if !canDeleteAll && !(canDeleteOwn && owned) {
		return domain.ErrForbidden
	}

	return s.deindex(ctx, doc)
}

// deindex removes a document's chunks from the vector store and its
// chunk/document rows, unlinks the file from the sorted tree, and clears
// its KV hash→path record and upload tracker entry.
func (s *documentService) deindex(ctx context.Context, doc *domain.Document) error {
	if err := s.vectorStore.Delete(ctx, nil, map[string]string{"document_id": doc.ID}); err != nil {
		return err
	}
	if err := s.chunkStore.DeleteByDocument(ctx, doc.ID); err != nil {
		return err
	}

	if doc.SortedPath != "" {
		if err := os.Remove(doc.SortedPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove sorted file", "path", doc.SortedPath, "error", err)
		}
	}

	if doc.ContentHash != "" {
		if err := s.kvStore.Delete(ctx, "file_hashes:"+doc.ContentHash); err != nil {
			s.logger.Warn("failed to clear hash record", "hash", doc.ContentHash, "error", err)
		}
	}

	if upload, err := s.uploadStore.GetByDropPath(ctx, doc.OriginalPath); err == nil && upload != nil {
		if err := s.uploadStore.Delete(ctx, upload.ID); err != nil {
			s.logger.Warn("failed to clear upload record", "upload_id", upload.ID, "error", err)
		}
	}

	return s.documentStore.Delete(ctx, doc.ID)
}
