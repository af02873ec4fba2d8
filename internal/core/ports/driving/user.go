package driving

import (
	"context"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
)

// CreateUserRequest represents a request to create a new user.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	RoleID   string `json:"role_id"`
}

// UpdateUserRequest represents a request to update a user.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	RoleID *string `json:"role_id,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// SetupRequest represents a request to create the initial admin user.
type SetupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SetupResponse represents the response from the setup endpoint.
type SetupResponse struct {
	User    *domain.User `json:"user"`
	Message string       `json:"message"`
}

// UserService manages user accounts (admin operations).
type UserService interface {
	// Setup creates the initial admin user and seeds the built-in roles
	// (only works if no users exist).
	Setup(ctx context.Context, req SetupRequest) (*SetupResponse, error)

	Create(ctx context.Context, req CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	SetPassword(ctx context.Context, id string, password string) error
}

// RoleService manages the dynamic RBAC role table (spec §4.6).
type RoleService interface {
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Get(ctx context.Context, id string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
}

// UploadService enforces upload quota/size limits and tracks accepted files
// through to their sorted location (spec §4.10).
type UploadService interface {
	Accept(ctx context.Context, userID, filename string, sizeBytes int64, data []byte) (*domain.Upload, error)
	Get(ctx context.Context, id string) (*domain.Upload, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Upload, error)
}

// ChatService manages chat sessions over the query pipeline.
type ChatService interface {
	CreateSession(ctx context.Context, userID, title string) (*domain.ChatSession, error)
	ListSessions(ctx context.Context, userID string) ([]*domain.ChatSession, error)
	GetSession(ctx context.Context, id string) (*domain.ChatSession, error)
	DeleteSession(ctx context.Context, userID, id string) error
	Ask(ctx context.Context, caller *domain.AuthContext, sessionID, query string) (*domain.QueryResult, error)
}
