package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// MockDocumentStore is an in-memory DocumentStore for testing.
type MockDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document
	byHash    map[string][]*domain.Document
}

// NewMockDocumentStore creates a new MockDocumentStore.
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		documents: make(map[string]*domain.Document),
		byHash:    make(map[string][]*domain.Document),
	}
}

func (m *MockDocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = doc
	found := false
	for _, d := range m.byHash[doc.ContentHash] {
		if d.ID == doc.ID {
			found = true
			break
		}
	}
	if !found {
		m.byHash[doc.ContentHash] = append(m.byHash[doc.ContentHash], doc)
	}
	return nil
}

func (m *MockDocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *MockDocumentStore) GetByHash(ctx context.Context, hash string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := m.byHash[hash]
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return docs[0], nil
}

func (m *MockDocumentStore) GetBySortedPath(ctx context.Context, path string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, doc := range m.documents {
		if doc.SortedPath == path {
			return doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockDocumentStore) List(ctx context.Context, filter driven.DocumentFilter) ([]*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Document
	for _, doc := range m.documents {
		if filter.Domain != "" && doc.Domain != filter.Domain {
			continue
		}
		if filter.Category != "" && doc.Category != filter.Category {
			continue
		}
		if filter.Extension != "" && doc.Extension != filter.Extension {
			continue
		}
		if filter.UploadedBy != "" && doc.UploadedBy != filter.UploadedBy {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

func (m *MockDocumentStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.documents, id)
	docs := m.byHash[doc.ContentHash]
	for i, d := range docs {
		if d.ID == id {
			m.byHash[doc.ContentHash] = append(docs[:i], docs[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockDocumentStore) DeleteBatch(ctx context.Context, ids []string) error {
	for _, id := range ids {
		_ = m.Delete(ctx, id)
	}
	return nil
}

func (m *MockDocumentStore) Count(ctx context.Context, filter driven.DocumentFilter) (int, error) {
	docs, err := m.List(ctx, filter)
	return len(docs), err
}

func (m *MockDocumentStore) Duplicates(ctx context.Context) (map[string][]*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]*domain.Document)
	for hash, docs := range m.byHash {
		if len(docs) > 1 {
			out[hash] = docs
		}
	}
	return out, nil
}

// Reset clears all stored documents (test helper).
func (m *MockDocumentStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = make(map[string]*domain.Document)
	m.byHash = make(map[string][]*domain.Document)
}
