package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
)

// MockRoleStore is an in-memory RoleStore for testing.
type MockRoleStore struct {
	mu      sync.RWMutex
	roles   map[string]*domain.Role
	byName  map[string]*domain.Role
}

// NewMockRoleStore creates a new MockRoleStore.
func NewMockRoleStore() *MockRoleStore {
	return &MockRoleStore{
		roles:  make(map[string]*domain.Role),
		byName: make(map[string]*domain.Role),
	}
}

func (m *MockRoleStore) Save(ctx context.Context, role *domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[role.ID] = role
	m.byName[role.Name] = role
	return nil
}

func (m *MockRoleStore) Get(ctx context.Context, id string) (*domain.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	role, ok := m.roles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return role, nil
}

func (m *MockRoleStore) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	role, ok := m.byName[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return role, nil
}

func (m *MockRoleStore) List(ctx context.Context) ([]*domain.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Role
	for _, role := range m.roles {
		out = append(out, role)
	}
	return out, nil
}

func (m *MockRoleStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byName, role.Name)
	delete(m.roles, id)
	return nil
}

// Reset clears all stored roles (test helper).
func (m *MockRoleStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles = make(map[string]*domain.Role)
	m.byName = make(map[string]*domain.Role)
}
