package postgres

import (
	"context"
	"database/sql"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore implements driven.ChunkStore using PostgreSQL. Embeddings
// themselves live in the vector store (sqlite-vec or qdrant); this table
// keeps the chunk text and offsets so a document's chunks can be replayed
// without re-extracting the source file.
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// SaveBatch saves a document's chunks in a transaction.
func (s *ChunkStore) SaveBatch(ctx context.Context, chunks []*domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO chunks (id, document_id, chunk_index, content, start_offset, end_offset, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				content = EXCLUDED.content,
				chunk_index = EXCLUDED.chunk_index,
				start_offset = EXCLUDED.start_offset,
				end_offset = EXCLUDED.end_offset
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, chunk := range chunks {
			if _, err := stmt.ExecContext(ctx,
				chunk.ID,
				chunk.DocumentID,
				chunk.ChunkIndex,
				chunk.Content,
				chunk.StartOffset,
				chunk.EndOffset,
				chunk.CreatedAt,
			); err != nil {
				return err
			}
		}

		return nil
	})
}

// GetByDocument retrieves all chunks for a document, ordered by index.
func (s *ChunkStore) GetByDocument(ctx context.Context, documentID string) ([]*domain.Chunk, error) {
	query := `
		SELECT id, document_id, chunk_index, content, start_offset, end_offset, created_at
		FROM chunks
		WHERE document_id = $1
		ORDER BY chunk_index ASC
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.ChunkIndex,
			&chunk.Content,
			&chunk.StartOffset,
			&chunk.EndOffset,
			&chunk.CreatedAt,
		); err != nil {
			return nil, err
		}
		chunks = append(chunks, &chunk)
	}
	return chunks, rows.Err()
}

// DeleteByDocument deletes all chunks for a document.
func (s *ChunkStore) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = $1`, documentID)
	return err
}
