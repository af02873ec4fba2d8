package mocks

import (
	"context"
	"strings"
	"sync"
)

// MockKVStore is an in-memory KVStore for testing.
type MockKVStore struct {
	mu      sync.RWMutex
	strs    map[string]string
	hashes  map[string]map[string]string
	counter map[string]map[string]int64
}

// NewMockKVStore creates a new MockKVStore.
func NewMockKVStore() *MockKVStore {
	return &MockKVStore{
		strs:    make(map[string]string),
		hashes:  make(map[string]map[string]string),
		counter: make(map[string]map[string]int64),
	}
}

func (m *MockKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.strs[key]
	return v, ok, nil
}

func (m *MockKVStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strs[key] = value
	return nil
}

func (m *MockKVStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.strs, key)
	delete(m.hashes, key)
	delete(m.counter, key)
	return nil
}

func (m *MockKVStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.hashes[key]))
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *MockKVStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *MockKVStore) HDel(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hashes, key)
	return nil
}

func (m *MockKVStore) Incr(ctx context.Context, key string, field string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.counter[key]
	if !ok {
		c = make(map[string]int64)
		m.counter[key] = c
	}
	c[field] += delta
	return nil
}

func (m *MockKVStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for k := range m.strs {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *MockKVStore) Close() error { return nil }

// CounterValue returns a counter's current value (test helper).
func (m *MockKVStore) CounterValue(key, field string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counter[key][field]
}

// Reset clears all stored state (test helper).
func (m *MockKVStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strs = make(map[string]string)
	m.hashes = make(map[string]map[string]string)
	m.counter = make(map[string]map[string]int64)
}
