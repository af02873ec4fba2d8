package driven

import (
	"context"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
)

// UploadStore handles upload-tracker persistence: the user_uploads table
// (spec §4.10 / §6).
type UploadStore interface {
	Save(ctx context.Context, upload *domain.Upload) error
	Get(ctx context.Context, id string) (*domain.Upload, error)
	GetByDropPath(ctx context.Context, path string) (*domain.Upload, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Upload, error)

	// CountPending returns the number of uploads still awaiting sort for the
	// user, used to enforce the quota at upload time.
	CountPending(ctx context.Context, userID string) (int, error)

	Delete(ctx context.Context, id string) error
}

// ChatStore handles chat session/message persistence.
type ChatStore interface {
	SaveSession(ctx context.Context, session *domain.ChatSession) error
	GetSession(ctx context.Context, id string) (*domain.ChatSession, error)
	ListSessions(ctx context.Context, userID string) ([]*domain.ChatSession, error)
	DeleteSession(ctx context.Context, id string) error

	SaveMessage(ctx context.Context, msg *domain.ChatMessage) error
	ListMessages(ctx context.Context, sessionID string) ([]*domain.ChatMessage, error)
}
