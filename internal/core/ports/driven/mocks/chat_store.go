package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
)

// MockChatStore is an in-memory ChatStore for testing.
type MockChatStore struct {
	mu           sync.RWMutex
	sessions     map[string]*domain.ChatSession
	byUser       map[string][]*domain.ChatSession
	messages     map[string][]*domain.ChatMessage
}

// NewMockChatStore creates a new MockChatStore.
func NewMockChatStore() *MockChatStore {
	return &MockChatStore{
		sessions: make(map[string]*domain.ChatSession),
		byUser:   make(map[string][]*domain.ChatSession),
		messages: make(map[string][]*domain.ChatMessage),
	}
}

func (m *MockChatStore) SaveSession(ctx context.Context, session *domain.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[session.ID]; !exists {
		m.byUser[session.UserID] = append(m.byUser[session.UserID], session)
	}
	m.sessions[session.ID] = session
	return nil
}

func (m *MockChatStore) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *MockChatStore) ListSessions(ctx context.Context, userID string) ([]*domain.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byUser[userID], nil
}

func (m *MockChatStore) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.sessions, id)
	delete(m.messages, id)
	list := m.byUser[s.UserID]
	for i, x := range list {
		if x.ID == id {
			m.byUser[s.UserID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockChatStore) SaveMessage(ctx context.Context, msg *domain.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msg.SessionID] = append(m.messages[msg.SessionID], msg)
	return nil
}

func (m *MockChatStore) ListMessages(ctx context.Context, sessionID string) ([]*domain.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.messages[sessionID], nil
}

// Reset clears all stored state (test helper).
func (m *MockChatStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*domain.ChatSession)
	m.byUser = make(map[string][]*domain.ChatSession)
	m.messages = make(map[string][]*domain.ChatMessage)
}
