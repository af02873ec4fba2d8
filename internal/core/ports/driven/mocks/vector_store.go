package mocks

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// MockVectorStore is an in-memory VectorStore using brute-force cosine distance.
type MockVectorStore struct {
	mu     sync.RWMutex
	chunks map[string]driven.VectorChunk
}

func NewMockVectorStore() *MockVectorStore {
	return &MockVectorStore{chunks: make(map[string]driven.VectorChunk)}
}

func (m *MockVectorStore) Add(ctx context.Context, chunks []driven.VectorChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chunks {
		m.chunks[c.ChunkID] = c
	}
	return nil
}

func (m *MockVectorStore) Query(ctx context.Context, queryEmbedding []float32, n int) ([]driven.VectorMatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matches := make([]driven.VectorMatch, 0, len(m.chunks))
	for _, c := range m.chunks {
		matches = append(matches, driven.VectorMatch{
			ChunkID:    c.ChunkID,
			DocumentID: c.DocumentID,
			Content:    c.Content,
			Distance:   cosineDistance(queryEmbedding, c.Embedding),
			Metadata:   c.Metadata,
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if n > 0 && n < len(matches) {
		matches = matches[:n]
	}
	return matches, nil
}

func (m *MockVectorStore) Get(ctx context.Context, where map[string]string) ([]driven.VectorMatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []driven.VectorMatch
	for _, c := range m.chunks {
		if matchesPredicate(c.Metadata, where) {
			out = append(out, driven.VectorMatch{ChunkID: c.ChunkID, DocumentID: c.DocumentID, Content: c.Content, Metadata: c.Metadata})
		}
	}
	return out, nil
}

func (m *MockVectorStore) Delete(ctx context.Context, ids []string, where map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	for id, c := range m.chunks {
		if idSet[id] || matchesPredicate(c.Metadata, where) {
			delete(m.chunks, id)
		}
	}
	return nil
}

func (m *MockVectorStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks), nil
}

func (m *MockVectorStore) Close() error { return nil }

func matchesPredicate(metadata, where map[string]string) bool {
	if len(where) == 0 {
		return false
	}
	for k, v := range where {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

func cosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 2.0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 2.0
	}
	cosine := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	return 1 - cosine
}
