package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven/mocks"
)

func newTestDocumentService() (*mocks.MockDocumentStore, *mocks.MockChunkStore, *mocks.MockVectorStore, *mocks.MockKVStore, *mocks.MockUploadStore, *documentService) {
	documentStore := mocks.NewMockDocumentStore()
	chunkStore := mocks.NewMockChunkStore()
	vectorStore := mocks.NewMockVectorStore()
	kvStore := mocks.NewMockKVStore()
	uploadStore := mocks.NewMockUploadStore()
	svc := NewDocumentService(documentStore, chunkStore, vectorStore, kvStore, uploadStore, slog.Default()).(*documentService)
	return documentStore, chunkStore, vectorStore, kvStore, uploadStore, svc
}

func allDomainsRole() *domain.Role {
	return &domain.Role{
		ID:   "role-admin",
		Name: "admin",
		FilePermissions: &domain.FilePermissions{
			AllowedDomains:    []string{domain.Wildcard},
			AllowedCategories: []string{domain.Wildcard},
		},
	}
}

func scopedRole(allowedDomain string) *domain.Role {
	return &domain.Role{
		ID:   "role-scoped",
		Name: "scoped",
		FilePermissions: &domain.FilePermissions{
			AllowedDomains:    []string{allowedDomain},
			AllowedCategories: []string{domain.Wildcard},
		},
	}
}

func TestDocumentService_Get(t *testing.T) {
	documentStore, _, _, _, _, svc := newTestDocumentService()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-123", Domain: "finance", Category: "invoices"}
	_ = documentStore.Save(ctx, doc)

	result, err := svc.Get(ctx, allDomainsRole(), "doc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != doc.ID {
		t.Errorf("expected document ID %s, got %s", doc.ID, result.ID)
	}

	_, err = svc.Get(ctx, allDomainsRole(), "non-existent")
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDocumentService_Get_DeniesOutOfScopeRole(t *testing.T) {
	documentStore, _, _, _, _, svc := newTestDocumentService()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-123", Domain: "finance", Category: "invoices"}
	_ = documentStore.Save(ctx, doc)

	_, err := svc.Get(ctx, scopedRole("hr"), "doc-123")
	if err != domain.ErrAccessDenied {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}

func TestDocumentService_GetWithChunks(t *testing.T) {
	documentStore, chunkStore, _, _, _, svc := newTestDocumentService()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-123", Domain: "finance", Category: "invoices"}
	_ = documentStore.Save(ctx, doc)

	chunks := []*domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-123", Content: "First chunk content", ChunkIndex: 0},
		{ID: "chunk-2", DocumentID: "doc-123", Content: "Second chunk content", ChunkIndex: 1},
	}
	_ = chunkStore.SaveBatch(ctx, chunks)

	result, err := svc.GetWithChunks(ctx, allDomainsRole(), "doc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Document.ID != doc.ID {
		t.Errorf("expected document ID %s, got %s", doc.ID, result.Document.ID)
	}
	if len(result.Chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(result.Chunks))
	}
}

func TestDocumentService_List_FiltersByRole(t *testing.T) {
	documentStore, _, _, _, _, svc := newTestDocumentService()
	ctx := context.Background()

	_ = documentStore.Save(ctx, &domain.Document{ID: "doc-1", Domain: "finance", Category: "invoices"})
	_ = documentStore.Save(ctx, &domain.Document{ID: "doc-2", Domain: "hr", Category: "policies"})

	docs, err := svc.List(ctx, scopedRole("finance"), driven.DocumentFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "doc-1" {
		t.Fatalf("expected only doc-1 visible to finance-scoped role, got %+v", docs)
	}
}

func TestDocumentService_Count_UnrestrictedRoleUsesStoreCount(t *testing.T) {
	documentStore, _, _, _, _, svc := newTestDocumentService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = documentStore.Save(ctx, &domain.Document{ID: generateID(), Domain: "finance", Category: "invoices"})
	}

	count, err := svc.Count(ctx, allDomainsRole(), driven.DocumentFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3, got %d", count)
	}
}

func TestDocumentService_Count_ScopedRoleFiltersFirst(t *testing.T) {
	documentStore, _, _, _, _, svc := newTestDocumentService()
	ctx := context.Background()

	_ = documentStore.Save(ctx, &domain.Document{ID: "doc-1", Domain: "finance", Category: "invoices"})
	_ = documentStore.Save(ctx, &domain.Document{ID: "doc-2", Domain: "hr", Category: "policies"})

	count, err := svc.Count(ctx, scopedRole("finance"), driven.DocumentFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1, got %d", count)
	}
}

func TestDocumentService_Duplicates_OnlyCountsVisiblePairs(t *testing.T) {
	documentStore, _, _, _, _, svc := newTestDocumentService()
	ctx := context.Background()

	_ = documentStore.Save(ctx, &domain.Document{ID: "doc-1", Domain: "finance", Category: "invoices", ContentHash: "h1"})
	_ = documentStore.Save(ctx, &domain.Document{ID: "doc-2", Domain: "hr", Category: "policies", ContentHash: "h1"})

	groups, err := svc.Duplicates(ctx, scopedRole("finance"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("expected no duplicate group since only one copy is visible, got %+v", groups)
	}

	groups, err = svc.Duplicates(ctx, allDomainsRole())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups["h1"]) != 2 {
		t.Fatalf("expected both copies visible to the unrestricted role, got %+v", groups)
	}
}

func TestDocumentService_Delete_RequiresCapability(t *testing.T) {
	documentStore, _, vectorStore, _, _, svc := newTestDocumentService()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", Domain: "finance", Category: "invoices", UploadedBy: "someone-else"}
	_ = documentStore.Save(ctx, doc)

	caller := &domain.AuthContext{
		UserID: "user-1",
		Role: &domain.Role{
			Permissions:     []string{},
			FilePermissions: allDomainsRole().FilePermissions,
		},
	}

	err := svc.Delete(ctx, caller, "doc-1")
	if err != domain.ErrForbidden {
		t.Errorf("expected ErrForbidden without delete capability, got %v", err)
	}

	caller.Role.Permissions = []string{domain.CapFilesDeleteAll}
	if err := svc.Delete(ctx, caller, "doc-1"); err != nil {
		t.Fatalf("unexpected error with files.delete.all: %v", err)
	}

	count, err := vectorStore.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected vector chunks to be deindexed, got %d", count)
	}
}

func TestDocumentService_Delete_OwnerMayDeleteWithDeleteOwnCapability(t *testing.T) {
	documentStore, _, _, _, _, svc := newTestDocumentService()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", Domain: "finance", Category: "invoices", UploadedBy: "user-1"}
	_ = documentStore.Save(ctx, doc)

	caller := &domain.AuthContext{
		UserID: "user-1",
		Role: &domain.Role{
			Permissions:     []string{domain.CapFilesDeleteOwn},
			FilePermissions: allDomainsRole().FilePermissions,
		},
	}

	if err := svc.Delete(ctx, caller, "doc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := documentStore.Get(ctx, "doc-1"); err != domain.ErrNotFound {
		t.Errorf("expected document to be removed, got err=%v", err)
	}
}
