package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-core/internal/classifier"
	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-core/internal/postprocessors"
	"github.com/custodia-labs/sercha-core/internal/runtime"
)

var _ driving.IngestOrchestrator = (*IngestOrchestrator)(nil)

// IngestOrchestrator runs the 12-step ingestion pipeline (spec §4.7):
// verify/hash/extract/classify/sort/chunk/embed/index/record, with a
// deduplication short-circuit on content hash.
type IngestOrchestrator struct {
	extractor     driven.Extractor
	documentStore driven.DocumentStore
	chunkStore    driven.ChunkStore
	vectorStore   driven.VectorStore
	kvStore       driven.KVStore
	uploadStore   driven.UploadStore
	services      *runtime.Services
	sortedRoot    string
	timeBased     bool
	logger        *slog.Logger
}

// IngestOrchestratorConfig holds dependencies for IngestOrchestrator.
type IngestOrchestratorConfig struct {
	Extractor     driven.Extractor
	DocumentStore driven.DocumentStore
	ChunkStore    driven.ChunkStore
	VectorStore   driven.VectorStore
	KVStore       driven.KVStore
	UploadStore   driven.UploadStore
	Services      *runtime.Services
	SortedRoot    string
	TimeBased     bool
	Logger        *slog.Logger
}

// NewIngestOrchestrator creates a new ingestion orchestrator.
func NewIngestOrchestrator(cfg IngestOrchestratorConfig) *IngestOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestOrchestrator{
		extractor:     cfg.Extractor,
		documentStore: cfg.DocumentStore,
		chunkStore:    cfg.ChunkStore,
		vectorStore:   cfg.VectorStore,
		kvStore:       cfg.KVStore,
		uploadStore:   cfg.UploadStore,
		services:      cfg.Services,
		sortedRoot:    cfg.SortedRoot,
		timeBased:     cfg.TimeBased,
		logger:        logger,
	}
}

// IngestFile runs the 12-step pipeline on one file currently sitting at path.
func (o *IngestOrchestrator) IngestFile(ctx context.Context, path string) (*domain.IngestResult, error) {
	start := time.Now()
	result := &domain.IngestResult{Path: path}

	// Step 1: verify file still exists.
	info, err := os.Stat(path)
	if err != nil {
		result.Error = fmt.Sprintf("file missing: %v", err)
		result.Duration = time.Since(start).Seconds()
		return result, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}

	// Step 4 (text extraction, also streams the sha256 hash and size — step 2).
	extracted, err := o.extractor.Extract(ctx, path)
	if err != nil {
		result.Error = fmt.Sprintf("extraction failed: %v", err)
		result.Duration = time.Since(start).Seconds()
		return result, fmt.Errorf("%w: %v", domain.ErrExtract, err)
	}

	// Step 3: consult duplicate index. Per spec, log and continue rather
	// than skip — the user may deliberately re-submit.
	if prior, err := o.documentStore.GetByHash(ctx, extracted.ContentHash); err == nil {
		result.Duplicate = true
		o.logger.Info("ingest: duplicate content hash, continuing anyway",
			"path", path, "prior_document_id", prior.ID, "hash", extracted.ContentHash)
	}

	// Step 5: classify.
	filename := filepath.Base(path)
	var llm driven.LLMService
	if o.services != nil {
		llm = o.services.LLMService()
	}
	classification := classifier.ClassifyWithFallback(ctx, llm, filename, extracted.Text)

	// Step 6: build destination, creating directories.
	ext := strings.ToLower(filepath.Ext(filename))
	destDir := filepath.Join(o.sortedRoot, classification.Domain, classification.Category, strings.TrimPrefix(ext, "."))
	if o.timeBased {
		destDir = filepath.Join(destDir, time.Now().Format("2006-01"))
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		result.Error = fmt.Sprintf("mkdir destination: %v", err)
		result.Duration = time.Since(start).Seconds()
		return result, fmt.Errorf("building destination: %w", err)
	}
	destPath := filepath.Join(destDir, filename)

	// Step 7: overwrite semantics. If the destination already exists,
	// deindex the previous document's chunks, then try to remove the old
	// file; fall back to an appended-counter filename if removal fails.
	if _, err := os.Stat(destPath); err == nil {
		if prevDoc, err := o.documentStore.GetBySortedPath(ctx, relSortedPath(o.sortedRoot, destPath)); err == nil {
			if err := o.deindexDocument(ctx, prevDoc); err != nil {
				o.logger.Warn("ingest: failed to deindex overwritten document", "document_id", prevDoc.ID, "error", err)
			}
		}
		if err := os.Remove(destPath); err != nil {
			destPath = appendCounter(destPath)
		}
	}

	// Step 8: move source file to destination.
	if err := os.Rename(path, destPath); err != nil {
		result.Error = fmt.Sprintf("move failed: %v", err)
		result.Duration = time.Since(start).Seconds()
		return result, fmt.Errorf("moving to destination: %w", err)
	}

	now := time.Now()
	docID := domain.GenerateID()
	doc := &domain.Document{
		ID:           docID,
		Filename:     filename,
		OriginalPath: path,
		SortedPath:   relSortedPath(o.sortedRoot, destPath),
		Domain:       classification.Domain,
		Category:     classification.Category,
		Extension:    ext,
		SizeBytes:    info.Size(),
		ContentHash:  extracted.ContentHash,
		Confidence:   classification.Confidence,
		Status:       domain.IngestStatusIndexed,
		CreatedAt:    now,
		UpdatedAt:    now,
		IndexedAt:    &now,
	}

	// Step 9: chunk the document with the adaptive size.
	pipeline := postprocessors.AdaptivePipeline(info.Size())
	rawChunks := pipeline.Process(extracted.Text)

	chunks := make([]*domain.Chunk, len(rawChunks))
	vectorChunks := make([]driven.VectorChunk, len(rawChunks))
	var texts []string
	for i, rc := range rawChunks {
		chunkID := fmt.Sprintf("%s-chunk-%d", docID, i)
		chunks[i] = &domain.Chunk{
			ID:          chunkID,
			DocumentID:  docID,
			ChunkIndex:  i,
			Content:     rc.Content,
			StartOffset: rc.StartOffset,
			EndOffset:   rc.EndOffset,
			CreatedAt:   now,
		}
		texts = append(texts, rc.Content)
		vectorChunks[i] = driven.VectorChunk{
			ChunkID:    chunkID,
			DocumentID: docID,
			Content:    rc.Content,
			Metadata: map[string]string{
				domain.MetaKeyDocumentID: docID,
				domain.MetaKeyFilename:   filename,
				domain.MetaKeyDomain:     classification.Domain,
				domain.MetaKeyCategory:   classification.Category,
				domain.MetaKeyChunkIndex: strconv.Itoa(i),
			},
		}
	}

	if o.services != nil {
		if embeddingService := o.services.EmbeddingService(); embeddingService != nil && len(texts) > 0 {
			embeddings, err := embeddingService.Embed(ctx, texts)
			if err != nil {
				o.logger.Warn("ingest: embedding failed, indexing without vectors", "document_id", docID, "error", err)
			} else {
				for i := range vectorChunks {
					if i < len(embeddings) {
						vectorChunks[i].Embedding = embeddings[i]
						chunks[i].Embedding = embeddings[i]
					}
				}
			}
		}
	}

	if err := o.chunkStore.SaveBatch(ctx, chunks); err != nil {
		o.logger.Warn("ingest: saving chunks failed", "document_id", docID, "error", err)
	}

	// Step 10: add chunks to the vector store.
	if err := o.vectorStore.Add(ctx, vectorChunks); err != nil {
		result.Error = fmt.Sprintf("indexing failed: %v", err)
		doc.Status = domain.IngestStatusFailed
		doc.Error = result.Error
		_ = o.documentStore.Save(ctx, doc)
		result.Duration = time.Since(start).Seconds()
		return result, fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}

	if err := o.documentStore.Save(ctx, doc); err != nil {
		result.Error = fmt.Sprintf("saving document record failed: %v", err)
		result.Duration = time.Since(start).Seconds()
		return result, fmt.Errorf("saving document: %w", err)
	}

	// Step 11: record in the auxiliary key-value store.
	if o.kvStore != nil {
		_ = o.kvStore.Set(ctx, "file_hashes:"+extracted.ContentHash, doc.SortedPath)
		_ = o.kvStore.HSet(ctx, "file_metadata:"+extracted.ContentHash, map[string]string{
			"size_mb":      fmt.Sprintf("%.3f", float64(info.Size())/(1<<20)),
			"chunk_size":   strconv.Itoa(domain.ChunkConfigForSize(info.Size()).MaxChunkSize),
			"chunks_count": strconv.Itoa(len(chunks)),
			"domain":       classification.Domain,
			"category":     classification.Category,
			"uploaded_at":  now.Format(time.RFC3339),
			"file_hash":    extracted.ContentHash,
		})
		_ = o.kvStore.Incr(ctx, "analytics:stats", "documents_ingested", 1)
		_ = o.kvStore.Incr(ctx, "analytics:stats", "chunks_indexed", int64(len(chunks)))
	}

	// Step 12: update any pending Upload record for this filename.
	if o.uploadStore != nil {
		if upload, err := o.uploadStore.GetByDropPath(ctx, path); err == nil {
			upload.SortedPath = doc.SortedPath
			upload.Status = domain.IngestStatusIndexed
			completed := now
			upload.CompletedAt = &completed
			if err := o.uploadStore.Save(ctx, upload); err != nil {
				o.logger.Warn("ingest: updating upload record failed", "upload_id", upload.ID, "error", err)
			}
		}
	}

	result.Document = doc
	result.Success = true
	result.Duration = time.Since(start).Seconds()

	o.logger.Info("ingest: file indexed",
		"document_id", docID, "domain", classification.Domain, "category", classification.Category,
		"chunks", len(chunks), "duplicate", result.Duplicate, "duration_seconds", result.Duration,
	)

	return result, nil
}

// CleanupFile deindexes and untracks a file that was removed before or
// after it finished ingesting.
func (o *IngestOrchestrator) CleanupFile(ctx context.Context, path string) error {
	rel := relSortedPath(o.sortedRoot, path)
	doc, err := o.documentStore.GetBySortedPath(ctx, rel)
	if err != nil {
		if o.uploadStore != nil {
			if upload, uerr := o.uploadStore.GetByDropPath(ctx, path); uerr == nil {
				return o.uploadStore.Delete(ctx, upload.ID)
			}
		}
		return nil
	}
	return o.deindexDocument(ctx, doc)
}

// deindexDocument removes a document's chunks from the chunk store and
// vector store, its KV record, then the document record itself.
func (o *IngestOrchestrator) deindexDocument(ctx context.Context, doc *domain.Document) error {
	if err := o.vectorStore.Delete(ctx, nil, map[string]string{domain.MetaKeyDocumentID: doc.ID}); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}
	if err := o.chunkStore.DeleteByDocument(ctx, doc.ID); err != nil {
		o.logger.Warn("cleanup: deleting chunks failed", "document_id", doc.ID, "error", err)
	}
	if o.kvStore != nil {
		_ = o.kvStore.Delete(ctx, "file_hashes:"+doc.ContentHash)
		_ = o.kvStore.HDel(ctx, "file_metadata:"+doc.ContentHash)
	}
	return o.documentStore.Delete(ctx, doc.ID)
}

// PruneSweep deindexes every document whose sorted file no longer exists on
// disk (vector chunks, chunk rows, KV records, document row). Upload
// tracker records are not touched.
func (o *IngestOrchestrator) PruneSweep(ctx context.Context) (*domain.IngestStats, error) {
	stats := &domain.IngestStats{}

	docs, err := o.documentStore.List(ctx, driven.DocumentFilter{})
	if err != nil {
		return stats, fmt.Errorf("listing documents: %w", err)
	}

	for _, doc := range docs {
		fullPath := filepath.Join(o.sortedRoot, filepath.FromSlash(doc.SortedPath))
		if _, err := os.Stat(fullPath); err != nil {
			if err := o.deindexDocument(ctx, doc); err != nil {
				o.logger.Warn("prune sweep: deindex failed", "document_id", doc.ID, "error", err)
				stats.FilesFailed++
				continue
			}
			stats.FilesIngested++ // reused as "files reconciled" counter for this sweep
		}
	}

	return stats, nil
}

// relSortedPath turns an absolute destination path into the sorted-tree
// relative path stored on domain.Document, normalized to forward slashes
// per spec §4.7 step 12.
func relSortedPath(sortedRoot, fullPath string) string {
	rel, err := filepath.Rel(sortedRoot, fullPath)
	if err != nil {
		rel = fullPath
	}
	return filepath.ToSlash(rel)
}

// appendCounter returns a sibling path with "_2", "_3", ... appended before
// the extension, used when the original destination file couldn't be
// removed during an overwrite.
func appendCounter(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
