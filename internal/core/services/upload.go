package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driving"
)

var _ driving.UploadService = (*uploadService)(nil)

// uploadService enforces the upload tracker's quota/size rules (spec §4.10),
// grounded in userService's CRUD-plus-validation shape: check invariants
// up front, touch one store on success, surface a sentinel error otherwise.
type uploadService struct {
	uploadStore driven.UploadStore
	userStore   driven.UserStore
	roleStore   driven.RoleStore
	dropDir     string
}

// NewUploadService creates a new UploadService.
func NewUploadService(uploadStore driven.UploadStore, userStore driven.UserStore, roleStore driven.RoleStore, dropDir string) driving.UploadService {
	return &uploadService{uploadStore: uploadStore, userStore: userStore, roleStore: roleStore, dropDir: dropDir}
}

// Accept validates quota/size/name-collision, writes the file into the drop
// directory, and records a pending Upload (spec §4.10). The worker populates
// SortedPath once the ingestion pipeline finishes sorting the file.
func (s *uploadService) Accept(ctx context.Context, userID, filename string, sizeBytes int64, data []byte) (*domain.Upload, error) {
	if sizeBytes > domain.MaxUploadSizeBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d byte limit", domain.ErrFileTooLarge, sizeBytes, domain.MaxUploadSizeBytes)
	}

	user, err := s.userStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	waived, err := s.quotaWaived(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	if !waived {
		quota := user.UploadQuota
		if quota <= 0 {
			quota = domain.DefaultUploadQuota
		}
		pending, err := s.uploadStore.CountPending(ctx, userID)
		if err != nil {
			return nil, err
		}
		if pending >= quota {
			return nil, fmt.Errorf("%w: %d pending uploads at quota %d", domain.ErrQuotaExceeded, pending, quota)
		}
	}

	dropPath := filepath.Join(s.dropDir, filename)
	if _, err := s.uploadStore.GetByDropPath(ctx, dropPath); err == nil {
		return nil, fmt.Errorf("%w: %s already exists in the drop directory", domain.ErrConflict, filename)
	}

	if err := os.MkdirAll(s.dropDir, 0o755); err != nil {
		return nil, fmt.Errorf("preparing drop directory: %w", err)
	}
	if err := os.WriteFile(dropPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing uploaded file: %w", err)
	}

	upload := &domain.Upload{
		ID:        domain.GenerateID(),
		UserID:    userID,
		Filename:  filename,
		SizeBytes: sizeBytes,
		DropPath:  dropPath,
		Status:    domain.IngestStatusPending,
	}
	if err := s.uploadStore.Save(ctx, upload); err != nil {
		return nil, fmt.Errorf("recording upload: %w", err)
	}
	return upload, nil
}

// Get retrieves an upload record by ID.
func (s *uploadService) Get(ctx context.Context, id string) (*domain.Upload, error) {
	return s.uploadStore.Get(ctx, id)
}

// ListByUser lists every upload a user has ever submitted.
func (s *uploadService) ListByUser(ctx context.Context, userID string) ([]*domain.Upload, error) {
	return s.uploadStore.ListByUser(ctx, userID)
}

// quotaWaived reports whether the user's role exempts them from the pending-
// upload quota: the built-in Admin role, or any role whose file permissions
// allow every domain (spec §4.10: "waived for '*'/Admin").
func (s *uploadService) quotaWaived(ctx context.Context, roleID string) (bool, error) {
	role, err := s.roleStore.Get(ctx, roleID)
	if err != nil {
		return false, err
	}
	if role.Name == domain.RoleNameAdmin {
		return true, nil
	}
	if role.FilePermissions != nil && role.FilePermissions.AllowsAllDomains() {
		return true, nil
	}
	return false, nil
}
