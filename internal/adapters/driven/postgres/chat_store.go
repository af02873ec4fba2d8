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
var _ driven.ChatStore = (*ChatStore)(nil)

// ChatStore implements driven.ChatStore using PostgreSQL: one table for
// session headers, one for turns.
type ChatStore struct {
	db *DB
}

// NewChatStore creates a new ChatStore
func NewChatStore(db *DB) *ChatStore {
	return &ChatStore{db: db}
}

// SaveSession creates or updates a chat session.
func (s *ChatStore) SaveSession(ctx context.Context, session *domain.ChatSession) error {
	query := `
		INSERT INTO chat_sessions (id, user_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, session.ID, session.UserID, session.Title, session.CreatedAt, session.UpdatedAt)
	return err
}

// GetSession retrieves a chat session by ID.
func (s *ChatStore) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	var session domain.ChatSession
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at FROM chat_sessions WHERE id = $1
	`, id).Scan(&session.ID, &session.UserID, &session.Title, &session.CreatedAt, &session.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions lists all sessions owned by a user.
func (s *ChatStore) ListSessions(ctx context.Context, userID string) ([]*domain.ChatSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at FROM chat_sessions
		WHERE user_id = $1 ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.ChatSession
	for rows.Next() {
		var session domain.ChatSession
		if err := rows.Scan(&session.ID, &session.UserID, &session.Title, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

// DeleteSession deletes a chat session and its messages.
func (s *ChatStore) DeleteSession(ctx context.Context, id string) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chat_messages WHERE session_id = $1`, id); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
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
	})
}

// SaveMessage appends a turn to a session.
func (s *ChatStore) SaveMessage(ctx context.Context, msg *domain.ChatMessage) error {
	var resultJSON []byte
	if msg.Result != nil {
		var err error
		resultJSON, err = json.Marshal(msg.Result)
		if err != nil {
			return fmt.Errorf("marshalling chat result: %w", err)
		}
	}

	query := `
		INSERT INTO chat_messages (id, session_id, role, content, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET content = EXCLUDED.content, result = EXCLUDED.result
	`
	_, err := s.db.ExecContext(ctx, query, msg.ID, msg.SessionID, string(msg.Role), msg.Content, resultJSON, msg.CreatedAt)
	return err
}

// ListMessages retrieves a session's turns in order.
func (s *ChatStore) ListMessages(ctx context.Context, sessionID string) ([]*domain.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, result, created_at FROM chat_messages
		WHERE session_id = $1 ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		var role string
		var resultJSON []byte
		if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &msg.Content, &resultJSON, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Role = domain.ChatRole(role)
		if len(resultJSON) > 0 {
			var result domain.QueryResult
			if err := json.Unmarshal(resultJSON, &result); err != nil {
				return nil, fmt.Errorf("decoding chat result: %w", err)
			}
			msg.Result = &result
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}
