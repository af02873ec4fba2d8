package driven

import (
	"context"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
)

// RoleStore handles role persistence (PostgreSQL).
type RoleStore interface {
	Save(ctx context.Context, role *domain.Role) error
	Get(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	Delete(ctx context.Context, id string) error
}
