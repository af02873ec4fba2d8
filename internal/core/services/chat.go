package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driving"
)

var _ driving.ChatService = (*chatService)(nil)

// chatService wraps QueryService with a persisted conversation history: one
// store handles both the session header and its turns, ownership is checked
// before any mutation, and a not-found session maps straight to
// domain.ErrNotFound.
type chatService struct {
	chatStore driven.ChatStore
	query     driving.QueryService
}

// NewChatService creates a new ChatService.
func NewChatService(chatStore driven.ChatStore, query driving.QueryService) driving.ChatService {
	return &chatService{chatStore: chatStore, query: query}
}

// CreateSession starts a new chat session for a user.
func (s *chatService) CreateSession(ctx context.Context, userID, title string) (*domain.ChatSession, error) {
	if title == "" {
		title = "New conversation"
	}
	now := time.Now()
	session := &domain.ChatSession{
		ID:        domain.GenerateID(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.chatStore.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("creating chat session: %w", err)
	}
	return session, nil
}

// ListSessions lists a user's chat sessions.
func (s *chatService) ListSessions(ctx context.Context, userID string) ([]*domain.ChatSession, error) {
	return s.chatStore.ListSessions(ctx, userID)
}

// GetSession retrieves a chat session by ID.
func (s *chatService) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	return s.chatStore.GetSession(ctx, id)
}

// DeleteSession removes a chat session, provided userID owns it.
func (s *chatService) DeleteSession(ctx context.Context, userID, id string) error {
	session, err := s.chatStore.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return domain.ErrForbidden
	}
	return s.chatStore.DeleteSession(ctx, id)
}

// Ask records the user's question, runs it through the query pipeline, and
// records the assistant's turn (including the full QueryResult, so the
// sources/confidence/outcome survive a session reload).
func (s *chatService) Ask(ctx context.Context, caller *domain.AuthContext, sessionID, query string) (*domain.QueryResult, error) {
	session, err := s.chatStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != caller.UserID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	if err := s.chatStore.SaveMessage(ctx, &domain.ChatMessage{
		ID:        domain.GenerateID(),
		SessionID: sessionID,
		Role:      domain.ChatRoleUser,
		Content:   query,
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("recording user message: %w", err)
	}

	result, err := s.query.Query(ctx, caller, domain.QueryRequest{Query: query, UserID: caller.UserID})
	if err != nil {
		return nil, err
	}

	if err := s.chatStore.SaveMessage(ctx, &domain.ChatMessage{
		ID:        domain.GenerateID(),
		SessionID: sessionID,
		Role:      domain.ChatRoleAssistant,
		Content:   result.Answer,
		Result:    result,
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("recording assistant message: %w", err)
	}

	session.UpdatedAt = time.Now()
	if err := s.chatStore.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("updating session timestamp: %w", err)
	}

	return result, nil
}
