package services

import (
	"context"
	"time"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driving"
)

// Ensure roleService implements RoleService
var _ driving.RoleService = (*roleService)(nil)

// roleService implements the RoleService interface (spec §4.6).
type roleService struct {
	roleStore driven.RoleStore
}

// NewRoleService creates a new RoleService.
func NewRoleService(roleStore driven.RoleStore) driving.RoleService {
	return &roleService{roleStore: roleStore}
}

func (s *roleService) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	if role.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if existing, _ := s.roleStore.GetByName(ctx, role.Name); existing != nil {
		return nil, domain.ErrAlreadyExists
	}

	now := time.Now()
	role.ID = generateID()
	role.CreatedAt = now
	role.UpdatedAt = now

	if err := s.roleStore.Save(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) Get(ctx context.Context, id string) (*domain.Role, error) {
	return s.roleStore.Get(ctx, id)
}

func (s *roleService) List(ctx context.Context) ([]*domain.Role, error) {
	return s.roleStore.List(ctx)
}

func (s *roleService) Update(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	existing, err := s.roleStore.Get(ctx, role.ID)
	if err != nil {
		return nil, err
	}

	existing.Name = role.Name
	existing.Permissions = role.Permissions
	existing.FilePermissions = role.FilePermissions
	existing.UpdatedAt = time.Now()

	if err := s.roleStore.Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *roleService) Delete(ctx context.Context, id string) error {
	return s.roleStore.Delete(ctx, id)
}
