package postgres

import (
	"context"
	"database/sql"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.UploadStore = (*UploadStore)(nil)

// UploadStore implements driven.UploadStore using PostgreSQL, tracking the
// user_uploads table (spec §4.10/§6).
type UploadStore struct {
	db *DB
}

// NewUploadStore creates a new UploadStore
func NewUploadStore(db *DB) *UploadStore {
	return &UploadStore{db: db}
}

// Save creates or updates an upload.
func (s *UploadStore) Save(ctx context.Context, upload *domain.Upload) error {
	query := `
		INSERT INTO user_uploads (id, user_id, filename, size_bytes, drop_path, sorted_path, status, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			sorted_path = EXCLUDED.sorted_path,
			status = EXCLUDED.status,
			completed_at = EXCLUDED.completed_at
	`
	_, err := s.db.ExecContext(ctx, query,
		upload.ID, upload.UserID, upload.Filename, upload.SizeBytes,
		upload.DropPath, NullString(&upload.SortedPath), string(upload.Status),
		upload.CreatedAt, NullTime(upload.CompletedAt))
	return err
}

const uploadSelectColumns = `
	SELECT id, user_id, filename, size_bytes, drop_path, sorted_path, status, created_at, completed_at
	FROM user_uploads`

func scanUpload(row rowScanner) (*domain.Upload, error) {
	var u domain.Upload
	var sortedPath sql.NullString
	var status string
	var completedAt sql.NullTime

	if err := row.Scan(&u.ID, &u.UserID, &u.Filename, &u.SizeBytes, &u.DropPath,
		&sortedPath, &status, &u.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	u.SortedPath = sortedPath.String
	u.Status = domain.IngestStatus(status)
	u.CompletedAt = TimePtr(completedAt)
	return &u, nil
}

// Get retrieves an upload by ID.
func (s *UploadStore) Get(ctx context.Context, id string) (*domain.Upload, error) {
	row := s.db.QueryRowContext(ctx, uploadSelectColumns+` WHERE id = $1`, id)
	u, err := scanUpload(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return u, err
}

// GetByDropPath retrieves an upload by its drop directory path.
func (s *UploadStore) GetByDropPath(ctx context.Context, path string) (*domain.Upload, error) {
	row := s.db.QueryRowContext(ctx, uploadSelectColumns+` WHERE drop_path = $1`, path)
	u, err := scanUpload(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return u, err
}

// ListByUser lists all uploads submitted by a user.
func (s *UploadStore) ListByUser(ctx context.Context, userID string) ([]*domain.Upload, error) {
	rows, err := s.db.QueryContext(ctx, uploadSelectColumns+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []*domain.Upload
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// CountPending returns the number of uploads still awaiting sort for the user.
func (s *UploadStore) CountPending(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_uploads
		WHERE user_id = $1 AND status = $2
	`, userID, string(domain.IngestStatusPending)).Scan(&count)
	return count, err
}

// Delete deletes an upload.
func (s *UploadStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM user_uploads WHERE id = $1`, id)
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
