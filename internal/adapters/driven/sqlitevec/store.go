// Package sqlitevec implements the VectorStore port on an embedded
// sqlite-vec database: a vec0 virtual table holds embeddings, with a
// sibling metadata table answering predicate-based Get/Delete lookups.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

func init() {
	sqlite_vec.Auto()
}

var _ driven.VectorStore = (*Store)(nil)

// Store implements driven.VectorStore over sqlite-vec.
type Store struct {
	db  *sql.DB
	dim int
}

// New opens (or creates) a sqlite-vec database at path with the given
// embedding dimension.
func New(path string, dim int) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating vector store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging vector store: %w", err)
	}

	schema := fmt.Sprintf(`
CREATE VIRTUAL TABLE IF NOT EXISTS vec_chunks USING vec0(
	chunk_id TEXT PRIMARY KEY,
	embedding float[%d] distance_metric=cosine
);

CREATE TABLE IF NOT EXISTS chunk_meta (
	chunk_id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	content TEXT NOT NULL,
	metadata JSON NOT NULL DEFAULT '{}',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_chunk_meta_document ON chunk_meta(document_id);
`, dim)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vector store schema: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db, dim: dim}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add upserts chunks into the index (spec §4.4: re-adding a chunk_id
// overwrites it).
func (s *Store) Add(ctx context.Context, chunks []driven.VectorChunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range chunks {
		if len(c.Embedding) != s.dim {
			return fmt.Errorf("embedding dimension %d does not match store dimension %d", len(c.Embedding), s.dim)
		}
		metaJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO vec_chunks (chunk_id, embedding) VALUES (?, ?)
			 ON CONFLICT(chunk_id) DO UPDATE SET embedding = excluded.embedding`,
			c.ChunkID, serializeFloat32(c.Embedding)); err != nil {
			return fmt.Errorf("upserting embedding for chunk %s: %w", c.ChunkID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chunk_meta (chunk_id, document_id, content, metadata) VALUES (?, ?, ?, ?)
			 ON CONFLICT(chunk_id) DO UPDATE SET document_id = excluded.document_id,
				content = excluded.content, metadata = excluded.metadata`,
			c.ChunkID, c.DocumentID, c.Content, string(metaJSON)); err != nil {
			return fmt.Errorf("upserting metadata for chunk %s: %w", c.ChunkID, err)
		}
	}

	return tx.Commit()
}

// Query returns the n nearest neighbours to queryEmbedding.
func (s *Store) Query(ctx context.Context, queryEmbedding []float32, n int) ([]driven.VectorMatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.chunk_id, v.distance, m.document_id, m.content, m.metadata
		FROM vec_chunks v
		JOIN chunk_meta m ON m.chunk_id = v.chunk_id
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance
	`, serializeFloat32(queryEmbedding), n)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}
	defer rows.Close()

	var matches []driven.VectorMatch
	for rows.Next() {
		var m driven.VectorMatch
		var metaJSON string
		if err := rows.Scan(&m.ChunkID, &m.Distance, &m.DocumentID, &m.Content, &metaJSON); err != nil {
			return nil, err
		}
		m.Metadata = decodeMetadata(metaJSON)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Get returns chunks matching a metadata predicate (e.g. document_id=X).
func (s *Store) Get(ctx context.Context, where map[string]string) ([]driven.VectorMatch, error) {
	query := `SELECT chunk_id, document_id, content, metadata FROM chunk_meta`
	args := []any{}
	if docID, ok := where["document_id"]; ok {
		query += " WHERE document_id = ?"
		args = append(args, docID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("vector get: %w", err)
	}
	defer rows.Close()

	var matches []driven.VectorMatch
	for rows.Next() {
		var m driven.VectorMatch
		var metaJSON string
		if err := rows.Scan(&m.ChunkID, &m.DocumentID, &m.Content, &metaJSON); err != nil {
			return nil, err
		}
		meta := decodeMetadata(metaJSON)
		if !matchesMetadata(meta, where) {
			continue
		}
		m.Metadata = meta
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Delete removes chunks by id, by predicate, or both (OR semantics).
func (s *Store) Delete(ctx context.Context, ids []string, where map[string]string) error {
	targets := map[string]struct{}{}
	for _, id := range ids {
		targets[id] = struct{}{}
	}
	if len(where) > 0 {
		matched, err := s.Get(ctx, where)
		if err != nil {
			return err
		}
		for _, m := range matched {
			targets[m.ChunkID] = struct{}{}
		}
	}
	if len(targets) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	placeholders := make([]string, 0, len(targets))
	args := make([]any, 0, len(targets))
	for id := range targets {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	in := "(" + strings.Join(placeholders, ",") + ")"

	if _, err := tx.ExecContext(ctx, "DELETE FROM vec_chunks WHERE chunk_id IN "+in, args...); err != nil {
		return fmt.Errorf("deleting embeddings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chunk_meta WHERE chunk_id IN "+in, args...); err != nil {
		return fmt.Errorf("deleting chunk metadata: %w", err)
	}
	return tx.Commit()
}

// Count returns the total number of indexed chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunk_meta").Scan(&n)
	return n, err
}

func matchesMetadata(meta map[string]string, where map[string]string) bool {
	for k, v := range where {
		if k == "document_id" {
			continue
		}
		if meta[k] != v {
			return false
		}
	}
	return true
}

func decodeMetadata(raw string) map[string]string {
	meta := map[string]string{}
	_ = json.Unmarshal([]byte(raw), &meta)
	return meta
}

func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
