package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using PostgreSQL, keyed
// around the sorted-tree/content-hash ingestion model.
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save creates or updates a document.
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling document metadata: %w", err)
	}

	query := `
		INSERT INTO documents (
			id, filename, original_path, sorted_path, domain, category, extension,
			size_bytes, content_hash, confidence, status, error, uploaded_by,
			metadata, created_at, updated_at, indexed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			filename = EXCLUDED.filename,
			original_path = EXCLUDED.original_path,
			sorted_path = EXCLUDED.sorted_path,
			domain = EXCLUDED.domain,
			category = EXCLUDED.category,
			extension = EXCLUDED.extension,
			size_bytes = EXCLUDED.size_bytes,
			content_hash = EXCLUDED.content_hash,
			confidence = EXCLUDED.confidence,
			status = EXCLUDED.status,
			error = EXCLUDED.error,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at,
			indexed_at = EXCLUDED.indexed_at
	`

	_, err = s.db.ExecContext(ctx, query,
		doc.ID,
		doc.Filename,
		doc.OriginalPath,
		NullString(&doc.SortedPath),
		doc.Domain,
		doc.Category,
		doc.Extension,
		doc.SizeBytes,
		doc.ContentHash,
		doc.Confidence,
		string(doc.Status),
		NullString(&doc.Error),
		doc.UploadedBy,
		metadataJSON,
		doc.CreatedAt,
		doc.UpdatedAt,
		NullTime(doc.IndexedAt),
	)
	return err
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.scanOne(ctx, `WHERE id = $1`, id)
}

// GetByHash retrieves a document by its content hash (dedup check).
func (s *DocumentStore) GetByHash(ctx context.Context, hash string) (*domain.Document, error) {
	return s.scanOne(ctx, `WHERE content_hash = $1 ORDER BY created_at ASC LIMIT 1`, hash)
}

// GetBySortedPath retrieves a document by its location in the sorted tree.
func (s *DocumentStore) GetBySortedPath(ctx context.Context, path string) (*domain.Document, error) {
	return s.scanOne(ctx, `WHERE sorted_path = $1`, path)
}

func (s *DocumentStore) scanOne(ctx context.Context, where string, args ...any) (*domain.Document, error) {
	query := documentSelectColumns + ` FROM documents ` + where
	row := s.db.QueryRowContext(ctx, query, args...)
	doc, err := scanDocumentRow(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// List retrieves documents matching the filter.
func (s *DocumentStore) List(ctx context.Context, filter driven.DocumentFilter) ([]*domain.Document, error) {
	where, args := filterClause(filter)
	query := documentSelectColumns + ` FROM documents ` + where + ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit, filter.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocumentRow(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete deletes a document.
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteBatch deletes multiple documents by ID.
func (s *DocumentStore) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `DELETE FROM documents WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// Count returns the total document count, optionally filtered.
func (s *DocumentStore) Count(ctx context.Context, filter driven.DocumentFilter) (int, error) {
	where, args := filterClause(filter)
	query := `SELECT COUNT(*) FROM documents ` + where
	var count int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// Duplicates returns groups of documents sharing a content hash.
func (s *DocumentStore) Duplicates(ctx context.Context) (map[string][]*domain.Document, error) {
	query := documentSelectColumns + ` FROM documents
		WHERE content_hash IN (
			SELECT content_hash FROM documents GROUP BY content_hash HAVING COUNT(*) > 1
		)
		ORDER BY content_hash, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make(map[string][]*domain.Document)
	for rows.Next() {
		doc, err := scanDocumentRow(rows)
		if err != nil {
			return nil, err
		}
		groups[doc.ContentHash] = append(groups[doc.ContentHash], doc)
	}
	return groups, rows.Err()
}

const documentSelectColumns = `
	SELECT id, filename, original_path, sorted_path, domain, category, extension,
		size_bytes, content_hash, confidence, status, error, uploaded_by,
		metadata, created_at, updated_at, indexed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocumentRow(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var sortedPath, errMsg sql.NullString
	var status string
	var metadataJSON []byte
	var indexedAt sql.NullTime

	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.OriginalPath, &sortedPath, &doc.Domain, &doc.Category,
		&doc.Extension, &doc.SizeBytes, &doc.ContentHash, &doc.Confidence, &status, &errMsg,
		&doc.UploadedBy, &metadataJSON, &doc.CreatedAt, &doc.UpdatedAt, &indexedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.SortedPath = sortedPath.String
	doc.Error = errMsg.String
	doc.Status = domain.IngestStatus(status)
	doc.IndexedAt = TimePtr(indexedAt)

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
			return nil, fmt.Errorf("decoding document metadata: %w", err)
		}
	}
	if doc.Metadata == nil {
		doc.Metadata = map[string]string{}
	}

	return &doc, nil
}

func filterClause(filter driven.DocumentFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add("domain", filter.Domain)
	add("category", filter.Category)
	add("extension", filter.Extension)
	add("uploaded_by", filter.UploadedBy)

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}
