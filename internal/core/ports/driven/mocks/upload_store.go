package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
)

// MockUploadStore is an in-memory UploadStore for testing.
type MockUploadStore struct {
	mu         sync.RWMutex
	uploads    map[string]*domain.Upload
	byDropPath map[string]*domain.Upload
	byUser     map[string][]*domain.Upload
}

// NewMockUploadStore creates a new MockUploadStore.
func NewMockUploadStore() *MockUploadStore {
	return &MockUploadStore{
		uploads:    make(map[string]*domain.Upload),
		byDropPath: make(map[string]*domain.Upload),
		byUser:     make(map[string][]*domain.Upload),
	}
}

func (m *MockUploadStore) Save(ctx context.Context, upload *domain.Upload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads[upload.ID] = upload
	m.byDropPath[upload.DropPath] = upload
	found := false
	for i, u := range m.byUser[upload.UserID] {
		if u.ID == upload.ID {
			m.byUser[upload.UserID][i] = upload
			found = true
			break
		}
	}
	if !found {
		m.byUser[upload.UserID] = append(m.byUser[upload.UserID], upload)
	}
	return nil
}

func (m *MockUploadStore) Get(ctx context.Context, id string) (*domain.Upload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.uploads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *MockUploadStore) GetByDropPath(ctx context.Context, path string) (*domain.Upload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byDropPath[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *MockUploadStore) ListByUser(ctx context.Context, userID string) ([]*domain.Upload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byUser[userID], nil
}

func (m *MockUploadStore) CountPending(ctx context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, u := range m.byUser[userID] {
		if u.Status != domain.IngestStatusIndexed && u.Status != domain.IngestStatusFailed {
			n++
		}
	}
	return n, nil
}

func (m *MockUploadStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.uploads[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.uploads, id)
	delete(m.byDropPath, u.DropPath)
	list := m.byUser[u.UserID]
	for i, x := range list {
		if x.ID == id {
			m.byUser[u.UserID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

// Reset clears all stored uploads (test helper).
func (m *MockUploadStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = make(map[string]*domain.Upload)
	m.byDropPath = make(map[string]*domain.Upload)
	m.byUser = make(map[string][]*domain.Upload)
}
