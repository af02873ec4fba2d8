package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
)

// MockChunkStore is an in-memory ChunkStore for testing.
type MockChunkStore struct {
	mu         sync.RWMutex
	chunks     map[string]*domain.Chunk
	byDocument map[string][]*domain.Chunk
}

// NewMockChunkStore creates a new MockChunkStore.
func NewMockChunkStore() *MockChunkStore {
	return &MockChunkStore{
		chunks:     make(map[string]*domain.Chunk),
		byDocument: make(map[string][]*domain.Chunk),
	}
}

func (m *MockChunkStore) SaveBatch(ctx context.Context, chunks []*domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, chunk := range chunks {
		m.chunks[chunk.ID] = chunk
		found := false
		for i, c := range m.byDocument[chunk.DocumentID] {
			if c.ID == chunk.ID {
				m.byDocument[chunk.DocumentID][i] = chunk
				found = true
				break
			}
		}
		if !found {
			m.byDocument[chunk.DocumentID] = append(m.byDocument[chunk.DocumentID], chunk)
		}
	}
	return nil
}

func (m *MockChunkStore) GetByDocument(ctx context.Context, documentID string) ([]*domain.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byDocument[documentID], nil
}

func (m *MockChunkStore) DeleteByDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	chunks := m.byDocument[documentID]
	for _, chunk := range chunks {
		delete(m.chunks, chunk.ID)
	}
	delete(m.byDocument, documentID)
	return nil
}

// Reset clears all stored chunks (test helper).
func (m *MockChunkStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = make(map[string]*domain.Chunk)
	m.byDocument = make(map[string][]*domain.Chunk)
}

// Count returns the number of stored chunks (test helper).
func (m *MockChunkStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}
