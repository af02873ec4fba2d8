package services

import (
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driving"
)

func newTestUserService(t *testing.T) (*mocks.MockUserStore, *mocks.MockSessionStore, *mocks.MockRoleStore, *userService) {
	t.Helper()
	userStore := mocks.NewMockUserStore()
	sessionStore := mocks.NewMockSessionStore()
	roleStore := mocks.NewMockRoleStore()
	authAdapter := mocks.NewMockAuthAdapter()
	svc := NewUserService(userStore, sessionStore, roleStore, authAdapter).(*userService)
	return userStore, sessionStore, roleStore, svc
}

func TestUserService_Create(t *testing.T) {
	_, _, _, svc := newTestUserService(t)

	tests := []struct {
		name    string
		req     driving.CreateUserRequest
		wantErr error
	}{
		{
			name: "valid user",
			req: driving.CreateUserRequest{
				Email:    "test@example.com",
				Password: "password123",
				Name:     "Test User",
				RoleID:   "role-member",
			},
			wantErr: nil,
		},
		{
			name: "missing email",
			req: driving.CreateUserRequest{
				Email:    "",
				Password: "password123",
				Name:     "Test User",
				RoleID:   "role-member",
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "missing password",
			req: driving.CreateUserRequest{
				Email:    "test2@example.com",
				Password: "",
				Name:     "Test User",
				RoleID:   "role-member",
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "missing name",
			req: driving.CreateUserRequest{
				Email:    "test3@example.com",
				Password: "password123",
				Name:     "",
				RoleID:   "role-member",
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "missing role",
			req: driving.CreateUserRequest{
				Email:    "test4@example.com",
				Password: "password123",
				Name:     "Test User",
				RoleID:   "",
			},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Create(context.Background(), tt.req)

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user == nil {
				t.Fatal("expected user to be returned")
			}
			if user.Email != tt.req.Email {
				t.Errorf("expected email %s, got %s", tt.req.Email, user.Email)
			}
			if user.Name != tt.req.Name {
				t.Errorf("expected name %s, got %s", tt.req.Name, user.Name)
			}
			if user.RoleID != tt.req.RoleID {
				t.Errorf("expected role ID %s, got %s", tt.req.RoleID, user.RoleID)
			}
			if user.UploadQuota != domain.DefaultUploadQuota {
				t.Errorf("expected default upload quota %d, got %d", domain.DefaultUploadQuota, user.UploadQuota)
			}
			if !user.Active {
				t.Error("expected user to be active")
			}
		})
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	_, _, _, svc := newTestUserService(t)

	req := driving.CreateUserRequest{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test User",
		RoleID:   "role-member",
	}

	// Create first user
	_, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Try to create duplicate
	_, err = svc.Create(context.Background(), req)
	if err != domain.ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUserService_Get(t *testing.T) {
	userStore, _, _, svc := newTestUserService(t)

	user := &domain.User{
		ID:     "user-123",
		Email:  "test@example.com",
		Name:   "Test User",
		RoleID: "role-member",
		Active: true,
	}
	_ = userStore.Save(context.Background(), user)

	result, err := svc.Get(context.Background(), "user-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != user.ID {
		t.Errorf("expected user ID %s, got %s", user.ID, result.ID)
	}

	_, err = svc.Get(context.Background(), "non-existent")
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_GetByEmail(t *testing.T) {
	userStore, _, _, svc := newTestUserService(t)

	user := &domain.User{
		ID:     "user-123",
		Email:  "test@example.com",
		Name:   "Test User",
		RoleID: "role-member",
		Active: true,
	}
	_ = userStore.Save(context.Background(), user)

	result, err := svc.GetByEmail(context.Background(), "test@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, result.Email)
	}

	_, err = svc.GetByEmail(context.Background(), "nonexistent@example.com")
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_List(t *testing.T) {
	userStore, _, _, svc := newTestUserService(t)

	for i := 0; i < 3; i++ {
		user := &domain.User{
			ID:     generateID(),
			Email:  "user" + string(rune('0'+i)) + "@example.com",
			Name:   "User " + string(rune('0'+i)),
			RoleID: "role-member",
			Active: true,
		}
		_ = userStore.Save(context.Background(), user)
	}

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 3 {
		t.Errorf("expected 3 users, got %d", len(users))
	}
}

func TestUserService_Update(t *testing.T) {
	userStore, _, _, svc := newTestUserService(t)

	user := &domain.User{
		ID:        "user-123",
		Email:     "test@example.com",
		Name:      "Test User",
		RoleID:    "role-member",
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	_ = userStore.Save(context.Background(), user)

	newName := "Updated Name"
	updated, err := svc.Update(context.Background(), "user-123", driving.UpdateUserRequest{
		Name: &newName,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != newName {
		t.Errorf("expected name %s, got %s", newName, updated.Name)
	}

	newRoleID := "role-admin"
	updated, err = svc.Update(context.Background(), "user-123", driving.UpdateUserRequest{
		RoleID: &newRoleID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.RoleID != newRoleID {
		t.Errorf("expected role ID %s, got %s", newRoleID, updated.RoleID)
	}
}

func TestUserService_Update_DeactivateUser(t *testing.T) {
	userStore, sessionStore, _, svc := newTestUserService(t)

	user := &domain.User{
		ID:     "user-123",
		Email:  "test@example.com",
		Name:   "Test User",
		RoleID: "role-member",
		Active: true,
	}
	_ = userStore.Save(context.Background(), user)

	session := &domain.Session{
		ID:     "session-123",
		UserID: "user-123",
		Token:  "token-123",
	}
	_ = sessionStore.Save(context.Background(), session)

	active := false
	_, err := svc.Update(context.Background(), "user-123", driving.UpdateUserRequest{
		Active: &active,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sessions, _ := sessionStore.ListByUser(context.Background(), "user-123")
	if len(sessions) != 0 {
		t.Error("expected sessions to be deleted when user is deactivated")
	}
}

func TestUserService_Delete(t *testing.T) {
	userStore, sessionStore, _, svc := newTestUserService(t)

	user := &domain.User{
		ID:     "user-123",
		Email:  "test@example.com",
		Name:   "Test User",
		RoleID: "role-member",
		Active: true,
	}
	_ = userStore.Save(context.Background(), user)

	session := &domain.Session{
		ID:     "session-123",
		UserID: "user-123",
		Token:  "token-123",
	}
	_ = sessionStore.Save(context.Background(), session)

	err := svc.Delete(context.Background(), "user-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Get(context.Background(), "user-123")
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound after deletion, got %v", err)
	}

	if sessionStore.Count() != 0 {
		t.Error("expected sessions to be deleted")
	}
}

func TestUserService_SetPassword(t *testing.T) {
	userStore, sessionStore, _, svc := newTestUserService(t)

	user := &domain.User{
		ID:           "user-123",
		Email:        "test@example.com",
		PasswordHash: "old-hash",
		Name:         "Test User",
		RoleID:       "role-member",
		Active:       true,
	}
	_ = userStore.Save(context.Background(), user)

	session := &domain.Session{
		ID:     "session-123",
		UserID: "user-123",
		Token:  "token-123",
	}
	_ = sessionStore.Save(context.Background(), session)

	err := svc.SetPassword(context.Background(), "user-123", "new-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sessionStore.Count() != 0 {
		t.Error("expected sessions to be deleted after password change")
	}

	err = svc.SetPassword(context.Background(), "user-123", "")
	if err != domain.ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput for empty password, got %v", err)
	}
}

func TestUserService_Setup(t *testing.T) {
	userStore, _, roleStore, svc := newTestUserService(t)

	resp, err := svc.Setup(context.Background(), driving.SetupRequest{
		Email:    "admin@example.com",
		Password: "password123",
		Name:     "Admin User",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.User.Email != "admin@example.com" {
		t.Errorf("expected admin email, got %s", resp.User.Email)
	}

	role, err := roleStore.Get(context.Background(), resp.User.RoleID)
	if err != nil {
		t.Fatalf("expected admin role to be seeded: %v", err)
	}
	if role.Name != domain.RoleNameAdmin {
		t.Errorf("expected seeded role name %s, got %s", domain.RoleNameAdmin, role.Name)
	}

	// A second setup call should be forbidden once a user exists.
	_, err = svc.Setup(context.Background(), driving.SetupRequest{
		Email:    "other@example.com",
		Password: "password123",
		Name:     "Other Admin",
	})
	if err != domain.ErrForbidden {
		t.Errorf("expected ErrForbidden for repeat setup, got %v", err)
	}
	if userStore.Count() != 1 {
		t.Errorf("expected exactly one user after repeat setup attempt, got %d", userStore.Count())
	}
}
