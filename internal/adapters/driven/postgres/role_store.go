package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.RoleStore = (*RoleStore)(nil)

// RoleStore implements driven.RoleStore using PostgreSQL, grounded in the
// teacher's UserStore save/get/list/delete shape with permissions and
// file_permissions serialized to JSONB columns.
type RoleStore struct {
	db *DB
}

// NewRoleStore creates a new RoleStore
func NewRoleStore(db *DB) *RoleStore {
	return &RoleStore{db: db}
}

// Save creates or updates a role.
func (s *RoleStore) Save(ctx context.Context, role *domain.Role) error {
	permsJSON, err := json.Marshal(role.Permissions)
	if err != nil {
		return fmt.Errorf("marshalling role permissions: %w", err)
	}
	var filePermsJSON []byte
	if role.FilePermissions != nil {
		filePermsJSON, err = json.Marshal(role.FilePermissions)
		if err != nil {
			return fmt.Errorf("marshalling role file permissions: %w", err)
		}
	}

	query := `
		INSERT INTO roles (id, name, permissions, file_permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			permissions = EXCLUDED.permissions,
			file_permissions = EXCLUDED.file_permissions,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		role.ID, role.Name, permsJSON, filePermsJSON, role.CreatedAt, role.UpdatedAt)
	return err
}

const roleSelectColumns = `SELECT id, name, permissions, file_permissions, created_at, updated_at FROM roles`

func scanRole(row rowScanner) (*domain.Role, error) {
	var role domain.Role
	var permsJSON []byte
	var filePermsJSON []byte

	if err := row.Scan(&role.ID, &role.Name, &permsJSON, &filePermsJSON, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return nil, err
	}

	if len(permsJSON) > 0 {
		if err := json.Unmarshal(permsJSON, &role.Permissions); err != nil {
			return nil, fmt.Errorf("decoding role permissions: %w", err)
		}
	}
	if len(filePermsJSON) > 0 {
		var fp domain.FilePermissions
		if err := json.Unmarshal(filePermsJSON, &fp); err != nil {
			return nil, fmt.Errorf("decoding role file permissions: %w", err)
		}
		role.FilePermissions = &fp
	}
	return &role, nil
}

// Get retrieves a role by ID.
func (s *RoleStore) Get(ctx context.Context, id string) (*domain.Role, error) {
	row := s.db.QueryRowContext(ctx, roleSelectColumns+` WHERE id = $1`, id)
	role, err := scanRole(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return role, err
}

// GetByName retrieves a role by name.
func (s *RoleStore) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	row := s.db.QueryRowContext(ctx, roleSelectColumns+` WHERE name = $1`, name)
	role, err := scanRole(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return role, err
}

// List retrieves all roles.
func (s *RoleStore) List(ctx context.Context) ([]*domain.Role, error) {
	rows, err := s.db.QueryContext(ctx, roleSelectColumns+` ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Delete deletes a role.
func (s *RoleStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
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
