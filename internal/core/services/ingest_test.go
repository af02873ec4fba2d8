package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/sercha-core/internal/extractors"
	"github.com/custodia-labs/sercha-core/internal/runtime"
)

func newTestIngestOrchestrator(t *testing.T, sortedRoot string) (*IngestOrchestrator, *mocks.MockDocumentStore, *mocks.MockVectorStore, *mocks.MockUploadStore, *mocks.MockKVStore) {
	t.Helper()
	documentStore := mocks.NewMockDocumentStore()
	chunkStore := mocks.NewMockChunkStore()
	vectorStore := mocks.NewMockVectorStore()
	kvStore := mocks.NewMockKVStore()
	uploadStore := mocks.NewMockUploadStore()

	config := domain.NewRuntimeConfig("postgres")
	svcRegistry := runtime.NewServices(config)

	orchestrator := NewIngestOrchestrator(IngestOrchestratorConfig{
		Extractor:     extractors.NewRegistry(),
		DocumentStore: documentStore,
		ChunkStore:    chunkStore,
		VectorStore:   vectorStore,
		KVStore:       kvStore,
		UploadStore:   uploadStore,
		Services:      svcRegistry,
		SortedRoot:    sortedRoot,
	})
	return orchestrator, documentStore, vectorStore, uploadStore, kvStore
}

func writeDropFile(t *testing.T, dropDir, name, content string) string {
	t.Helper()
	path := filepath.Join(dropDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing drop file: %v", err)
	}
	return path
}

func TestIngestFile_SortsAndIndexes(t *testing.T) {
	root := t.TempDir()
	dropDir := filepath.Join(root, "drop")
	sortedRoot := filepath.Join(root, "sorted")
	if err := os.MkdirAll(dropDir, 0o755); err != nil {
		t.Fatalf("mkdir drop dir: %v", err)
	}

	orchestrator, documentStore, vectorStore, _, kvStore := newTestIngestOrchestrator(t, sortedRoot)
	path := writeDropFile(t, dropDir, "invoice.txt", "quarterly revenue invoice budget forecast expense report")

	result, err := orchestrator.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Document.Domain != domain.DomainFinance {
		t.Errorf("expected Finance domain, got %s", result.Document.Domain)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected source file to be moved out of the drop directory")
	}
	destPath := filepath.Join(sortedRoot, result.Document.SortedPath)
	if _, err := os.Stat(destPath); err != nil {
		t.Errorf("expected file at sorted destination %s: %v", destPath, err)
	}

	saved, err := documentStore.Get(context.Background(), result.Document.ID)
	if err != nil {
		t.Fatalf("expected document to be saved: %v", err)
	}
	if saved.Status != domain.IngestStatusIndexed {
		t.Errorf("expected indexed status, got %s", saved.Status)
	}

	count, err := vectorStore.Count(context.Background())
	if err != nil || count == 0 {
		t.Errorf("expected chunks indexed in vector store, count=%d err=%v", count, err)
	}

	if _, ok, _ := kvStore.Get(context.Background(), "file_hashes:"+saved.ContentHash); !ok {
		t.Error("expected file_hashes KV record to be set")
	}
}

func TestIngestFile_MissingFileFails(t *testing.T) {
	root := t.TempDir()
	orchestrator, _, _, _, _ := newTestIngestOrchestrator(t, filepath.Join(root, "sorted"))

	_, err := orchestrator.IngestFile(context.Background(), filepath.Join(root, "does-not-exist.txt"))
	if err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestIngestFile_UpdatesPendingUploadRecord(t *testing.T) {
	root := t.TempDir()
	dropDir := filepath.Join(root, "drop")
	sortedRoot := filepath.Join(root, "sorted")
	if err := os.MkdirAll(dropDir, 0o755); err != nil {
		t.Fatalf("mkdir drop dir: %v", err)
	}

	orchestrator, _, _, uploadStore, _ := newTestIngestOrchestrator(t, sortedRoot)
	path := writeDropFile(t, dropDir, "notes.md", "nothing special here")

	if err := uploadStore.Save(context.Background(), &domain.Upload{
		ID:       "upload-1",
		UserID:   "user-1",
		Filename: "notes.md",
		DropPath: path,
		Status:   domain.IngestStatusPending,
	}); err != nil {
		t.Fatalf("seeding upload: %v", err)
	}

	result, err := orchestrator.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upload, err := uploadStore.Get(context.Background(), "upload-1")
	if err != nil {
		t.Fatalf("fetching upload: %v", err)
	}
	if upload.SortedPath != result.Document.SortedPath {
		t.Errorf("expected upload sorted path %q, got %q", result.Document.SortedPath, upload.SortedPath)
	}
	if upload.Status != domain.IngestStatusIndexed {
		t.Errorf("expected upload status indexed, got %s", upload.Status)
	}
}

func TestCleanupFile_DeindexesDocument(t *testing.T) {
	root := t.TempDir()
	dropDir := filepath.Join(root, "drop")
	sortedRoot := filepath.Join(root, "sorted")
	if err := os.MkdirAll(dropDir, 0o755); err != nil {
		t.Fatalf("mkdir drop dir: %v", err)
	}

	orchestrator, documentStore, vectorStore, _, _ := newTestIngestOrchestrator(t, sortedRoot)
	path := writeDropFile(t, dropDir, "main.go", "package main\n")

	result, err := orchestrator.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	destPath := filepath.Join(sortedRoot, result.Document.SortedPath)
	if err := orchestrator.CleanupFile(context.Background(), destPath); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}

	if _, err := documentStore.Get(context.Background(), result.Document.ID); err == nil {
		t.Error("expected document record to be removed after cleanup")
	}
	count, _ := vectorStore.Count(context.Background())
	if count != 0 {
		t.Errorf("expected vector store to be empty after cleanup, got %d chunks", count)
	}
}

func TestPruneSweep_RemovesMissingFiles(t *testing.T) {
	root := t.TempDir()
	dropDir := filepath.Join(root, "drop")
	sortedRoot := filepath.Join(root, "sorted")
	if err := os.MkdirAll(dropDir, 0o755); err != nil {
		t.Fatalf("mkdir drop dir: %v", err)
	}

	orchestrator, documentStore, _, _, _ := newTestIngestOrchestrator(t, sortedRoot)
	path := writeDropFile(t, dropDir, "report.txt", "quarterly revenue invoice budget forecast expense report")

	result, err := orchestrator.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	destPath := filepath.Join(sortedRoot, result.Document.SortedPath)
	if err := os.Remove(destPath); err != nil {
		t.Fatalf("removing sorted file: %v", err)
	}

	stats, err := orchestrator.PruneSweep(context.Background())
	if err != nil {
		t.Fatalf("prune sweep failed: %v", err)
	}
	if stats.FilesIngested != 1 {
		t.Errorf("expected 1 reconciled file, got %d", stats.FilesIngested)
	}

	if _, err := documentStore.Get(context.Background(), result.Document.ID); err == nil {
		t.Error("expected document record to be removed by prune sweep")
	}
}
