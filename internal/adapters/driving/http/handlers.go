package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// HealthResponse represents the health check response with component status
type HealthResponse struct {
	Status     string                     `json:"status"`                // overall status: "healthy" or "degraded"
	Components map[string]ComponentHealth `json:"components,omitempty"` // individual component health
}

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Status  string `json:"status"`            // "healthy" or "unhealthy"
	Message string `json:"message,omitempty"` // optional message for unhealthy components
}

// handleHealth godoc
// @Summary      Health check
// @Description  Returns 200 if the service is up, with status of each dependency in the body
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse  "Service is up with dependency status"
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]ComponentHealth)
	allHealthy := true

	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			components["postgres"] = ComponentHealth{Status: "unhealthy", Message: err.Error()}
			allHealthy = false
		} else {
			components["postgres"] = ComponentHealth{Status: "healthy"}
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			components["redis"] = ComponentHealth{Status: "unhealthy", Message: err.Error()}
			allHealthy = false
		} else {
			components["redis"] = ComponentHealth{Status: "healthy"}
		}
	}

	components["server"] = ComponentHealth{Status: "healthy"}

	resp := HealthResponse{Status: "healthy", Components: components}
	if !allHealthy {
		resp.Status = "degraded"
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleLogin godoc
// @Summary      User login
// @Description  Authenticate with email and password to receive a JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Login credentials"
// @Success      200      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials or account disabled"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case domain.ErrUnauthorized:
			writeError(w, http.StatusUnauthorized, "account disabled")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleRefresh godoc
// @Summary      Refresh token
// @Description  Exchange a refresh token for a new JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.RefreshRequest  true  "Refresh token"
// @Success      200      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid refresh token"
// @Router       /auth/refresh [post]
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.RefreshToken(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleLogout godoc
// @Summary      Logout user
// @Description  Invalidate the current session token
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatusResponse
// @Router       /auth/logout [post]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	_ = s.authService.Logout(r.Context(), token)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Setup endpoint (no auth required, one-time use)

// handleSetup godoc
// @Summary      Initial setup
// @Description  Create the initial admin user. This endpoint can only be called once when no users exist.
// @Tags         Setup
// @Accept       json
// @Produce      json
// @Param        request  body      driving.SetupRequest  true  "Admin user details"
// @Success      201      {object}  driving.SetupResponse
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      403      {object}  ErrorResponse  "Setup already complete"
// @Failure      500      {object}  ErrorResponse  "Setup failed"
// @Router       /setup [post]
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req driving.SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.userService.Setup(r.Context(), req)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "email, password, and name are required")
		case domain.ErrForbidden:
			writeError(w, http.StatusForbidden, "setup already complete")
		default:
			writeError(w, http.StatusInternalServerError, "setup failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// User endpoints

// handleGetMe godoc
// @Summary      Get current user
// @Description  Get the currently authenticated user's profile
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UserSummary
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      404  {object}  ErrorResponse  "User not found"
// @Router       /me [get]
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := s.userService.Get(r.Context(), authCtx.UserID)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	summary := user.ToSummary()
	if authCtx.Role != nil {
		summary.RoleName = authCtx.Role.Name
	}
	writeJSON(w, http.StatusOK, summary)
}

// changePasswordRequest is the body for the password-change endpoint.
type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// handleChangePassword godoc
// @Summary      Change own password
// @Description  Change the authenticated user's password
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      changePasswordRequest  true  "Old and new password"
// @Success      200      {object}  StatusResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      401      {object}  ErrorResponse  "Unauthorized or incorrect old password"
// @Router       /me/password [put]
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.authService.ChangePassword(r.Context(), authCtx.UserID, domain.ChangePasswordRequest{
		CurrentPassword: req.OldPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			writeError(w, http.StatusUnauthorized, "incorrect old password")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "invalid input")
		default:
			writeError(w, http.StatusInternalServerError, "failed to change password")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Admin user management

// handleListUsers godoc
// @Summary      List all users
// @Description  Get a list of all users (admin only)
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.UserSummary
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      403  {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /users [get]
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	summaries := make([]*domain.UserSummary, len(users))
	for i, u := range users {
		summaries[i] = u.ToSummary()
	}

	writeJSON(w, http.StatusOK, summaries)
}

// handleCreateUser godoc
// @Summary      Create user
// @Description  Create a new user (admin only)
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.CreateUserRequest  true  "User details"
// @Success      201      {object}  domain.UserSummary
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      409      {object}  ErrorResponse  "User already exists"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /users [post]
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req driving.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.userService.Create(r.Context(), req)
	if err != nil {
		switch err {
		case domain.ErrAlreadyExists:
			writeError(w, http.StatusConflict, "user already exists")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "invalid input")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user.ToSummary())
}

// handleUpdateUser godoc
// @Summary      Update user
// @Description  Update a user's name, role, or active status (admin only)
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "User ID"
// @Param        request  body      driving.UpdateUserRequest  true  "Fields to update"
// @Success      200      {object}  domain.UserSummary
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      404      {object}  ErrorResponse  "User not found"
// @Router       /users/{id} [put]
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing user id")
		return
	}

	var req driving.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.userService.Update(r.Context(), id, req)
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "user not found")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "invalid input")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update user")
		}
		return
	}

	writeJSON(w, http.StatusOK, user.ToSummary())
}

// handleSetUserRole godoc
// @Summary      Change user role
// @Description  Assign a different role to a user (admin only)
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "User ID"
// @Param        request  body      setUserRoleRequest  true  "New role ID"
// @Success      200      {object}  domain.UserSummary
// @Router       /users/{id}/role [put]
func (s *Server) handleSetUserRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing user id")
		return
	}

	var req setUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoleID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.userService.Update(r.Context(), id, driving.UpdateUserRequest{RoleID: &req.RoleID})
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "user not found")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "invalid role")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update role")
		}
		return
	}

	writeJSON(w, http.StatusOK, user.ToSummary())
}

type setUserRoleRequest struct {
	RoleID string `json:"role_id"`
}

// handleDeleteUser godoc
// @Summary      Delete user
// @Description  Delete a user by ID (admin only)
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  StatusResponse
// @Failure      400  {object}  ErrorResponse  "Missing user ID"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      403  {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      404  {object}  ErrorResponse  "User not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /users/{id} [delete]
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing user id")
		return
	}

	if err := s.userService.Delete(r.Context(), id); err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "user not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Role administration

// handleListRoles godoc
// @Summary      List roles
// @Description  List every role in the RBAC table (admin only)
// @Tags         Roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Role
// @Router       /roles [get]
func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := s.roleService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list roles")
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

// handleCreateRole godoc
// @Summary      Create role
// @Description  Create a new role with a permission set and file-visibility rules (admin only)
// @Tags         Roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.Role  true  "Role definition"
// @Success      201      {object}  domain.Role
// @Router       /roles [post]
func (s *Server) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	var role domain.Role
	if err := json.NewDecoder(r.Body).Decode(&role); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.roleService.Create(r.Context(), &role)
	if err != nil {
		switch err {
		case domain.ErrAlreadyExists:
			writeError(w, http.StatusConflict, "role already exists")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "invalid input")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create role")
		}
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateRole godoc
// @Summary      Update role
// @Description  Update a role's permissions or file-visibility rules (admin only)
// @Tags         Roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string      true  "Role ID"
// @Param        request  body      domain.Role  true  "Updated role"
// @Success      200      {object}  domain.Role
// @Router       /roles/{id} [put]
func (s *Server) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing role id")
		return
	}

	var role domain.Role
	if err := json.NewDecoder(r.Body).Decode(&role); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	role.ID = id

	updated, err := s.roleService.Update(r.Context(), &role)
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "role not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update role")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteRole godoc
// @Summary      Delete role
// @Description  Delete a role by ID (admin only)
// @Tags         Roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role ID"
// @Success      200  {object}  StatusResponse
// @Router       /roles/{id} [delete]
func (s *Server) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing role id")
		return
	}

	if err := s.roleService.Delete(r.Context(), id); err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "role not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete role")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Chat / query endpoints

// chatRequest is a one-shot question against the corpus with no session.
type chatRequest struct {
	Query string `json:"query"`
}

// handleChat godoc
// @Summary      Ask a one-shot question
// @Description  Run the grounded-answer retrieval pipeline against a query with no chat session attached
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      chatRequest  true  "Question"
// @Success      200      {object}  domain.QueryResult
// @Failure      400      {object}  ErrorResponse  "Missing query"
// @Router       /chat [post]
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := s.queryService.Query(r.Context(), authCtx, domain.QueryRequest{
		Query:  req.Query,
		UserID: authCtx.UserID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "model unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// createChatSessionRequest creates a new named chat session.
type createChatSessionRequest struct {
	Title string `json:"title"`
}

// handleCreateChatSession godoc
// @Summary      Create chat session
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      createChatSessionRequest  true  "Session title"
// @Success      201      {object}  domain.ChatSession
// @Router       /chats [post]
func (s *Server) handleCreateChatSession(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createChatSessionRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	session, err := s.chatService.CreateSession(r.Context(), authCtx.UserID, req.Title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create chat session")
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// handleListChatSessions godoc
// @Summary      List chat sessions
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.ChatSession
// @Router       /chats [get]
func (s *Server) handleListChatSessions(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sessions, err := s.chatService.ListSessions(r.Context(), authCtx.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list chat sessions")
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}

// askRequest asks a question within an existing chat session.
type askRequest struct {
	Query string `json:"query"`
}

// handleGetChatSession godoc
// @Summary      Get chat session / ask within it
// @Description  GET returns the session. If a `query` parameter is present, runs the query pipeline scoped to this session instead.
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Chat session ID"
// @Success      200  {object}  domain.ChatSession
// @Router       /chats/{id} [get]
func (s *Server) handleGetChatSession(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session id")
		return
	}

	if query := r.URL.Query().Get("query"); query != "" {
		result, err := s.chatService.Ask(r.Context(), authCtx, id, query)
		if err != nil {
			switch err {
			case domain.ErrNotFound:
				writeError(w, http.StatusNotFound, "chat session not found")
			case domain.ErrForbidden:
				writeError(w, http.StatusForbidden, "not your chat session")
			default:
				writeError(w, http.StatusInternalServerError, "query failed")
			}
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	session, err := s.chatService.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "chat session not found")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// handleDeleteChatSession godoc
// @Summary      Delete chat session
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Chat session ID"
// @Success      200  {object}  StatusResponse
// @Router       /chats/{id} [delete]
func (s *Server) handleDeleteChatSession(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session id")
		return
	}

	if err := s.chatService.DeleteSession(r.Context(), authCtx.UserID, id); err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "chat session not found")
		case domain.ErrForbidden:
			writeError(w, http.StatusForbidden, "not your chat session")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete chat session")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Classification endpoint

// classifyRequest asks the classifier to categorize arbitrary text.
type classifyRequest struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// handleClassify godoc
// @Summary      Classify text
// @Description  Run the domain/category classifier against arbitrary text (dry run, no document is created)
// @Tags         Classification
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      classifyRequest  true  "Filename and text to classify"
// @Success      200      {object}  domain.Classification
// @Router       /classify [post]
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := s.classifyService.Classify(r.Context(), req.Filename, req.Text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "classification failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Upload endpoint

// handleUpload godoc
// @Summary      Upload a file
// @Description  Upload a file for ingestion, subject to the caller's upload quota and the server's max file size
// @Tags         Uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "File to upload"
// @Success      201   {object}  domain.Upload
// @Failure      400   {object}  ErrorResponse  "Missing or invalid file"
// @Failure      413   {object}  ErrorResponse  "File too large"
// @Failure      429   {object}  ErrorResponse  "Upload quota exceeded"
// @Router       /upload [post]
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	upload, err := s.uploadService.Accept(r.Context(), authCtx.UserID, header.Filename, header.Size, data)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFileTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		case errors.Is(err, domain.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, "upload quota exceeded")
		case errors.Is(err, domain.ErrConflict):
			writeError(w, http.StatusConflict, "file already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid file")
		default:
			writeError(w, http.StatusInternalServerError, "upload failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, upload)
}

// File browsing endpoints

// handleListFiles godoc
// @Summary      List files
// @Description  List documents visible to the caller's role. Supports domain/category/extension/uploaded_by filters and pagination.
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Param        domain      query  string  false  "Filter by domain"
// @Param        category    query  string  false  "Filter by category"
// @Param        extension   query  string  false  "Filter by extension"
// @Param        uploaded_by query  string  false  "Filter by uploader user ID"
// @Param        limit       query  int     false  "Page size"
// @Param        offset      query  int     false  "Page offset"
// @Success      200  {array}  domain.Document
// @Router       /files [get]
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	filter := driven.DocumentFilter{
		Domain:     q.Get("domain"),
		Category:   q.Get("category"),
		Extension:  q.Get("extension"),
		UploadedBy: q.Get("uploaded_by"),
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		filter.Offset = v
	}

	docs, err := s.docService.List(r.Context(), authCtx.Role, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list files")
		return
	}

	writeJSON(w, http.StatusOK, docs)
}

// handleDownload godoc
// @Summary      Download a file
// @Description  Download the stored bytes of a document by ID, subject to RBAC file visibility
// @Tags         Files
// @Produce      application/octet-stream
// @Security     BearerAuth
// @Param        id  path  string  true  "Document ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /download/{id} [get]
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.PathValue("id")
	doc, err := s.docService.Get(r.Context(), authCtx.Role, id)
	if err != nil {
		switch err {
		case domain.ErrNotFound, domain.ErrAccessDenied:
			writeError(w, http.StatusNotFound, "document not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to get document")
		}
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	http.ServeFile(w, r, doc.SortedPath)
}

// handleDeleteFile godoc
// @Summary      Delete a file
// @Description  Delete a document by ID. Requires files.delete.own (own uploads) or files.delete.all.
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Document ID"
// @Success      200  {object}  StatusResponse
// @Router       /files/{id} [delete]
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document id")
		return
	}

	if err := s.docService.Delete(r.Context(), authCtx, id); err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "document not found")
		case domain.ErrForbidden, domain.ErrAccessDenied:
			writeError(w, http.StatusForbidden, "insufficient permissions")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete document")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleListDuplicates godoc
// @Summary      List duplicate files
// @Description  List groups of documents sharing a content hash
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]domain.Document
// @Router       /files/duplicates [get]
func (s *Server) handleListDuplicates(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dupes, err := s.docService.Duplicates(r.Context(), authCtx.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list duplicates")
		return
	}

	writeJSON(w, http.StatusOK, dupes)
}

// deleteDuplicatesRequest names the duplicate group to prune.
type deleteDuplicatesRequest struct {
	ContentHash string `json:"content_hash"`
}

// handleDeleteDuplicates godoc
// @Summary      Delete duplicate files
// @Description  Remove every document in a duplicate group but the first
// @Tags         Files
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      deleteDuplicatesRequest  true  "Content hash of the duplicate group"
// @Success      200      {object}  map[string]int
// @Router       /files/duplicates [delete]
func (s *Server) handleDeleteDuplicates(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req deleteDuplicatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ContentHash == "" {
		writeError(w, http.StatusBadRequest, "content_hash is required")
		return
	}

	removed, err := s.docService.DeleteDuplicates(r.Context(), authCtx.Role, req.ContentHash)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete duplicates")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// Category endpoints

// handleListCategories godoc
// @Summary      List custom categories
// @Description  List the custom categories registered for a domain
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Param        domain  path  string  true  "Domain name"
// @Success      200  {array}  string
// @Router       /categories/{domain} [get]
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	dom := r.PathValue("domain")

	categories, err := s.categoryService.List(r.Context(), dom)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "unknown domain")
		default:
			writeError(w, http.StatusInternalServerError, "failed to list categories")
		}
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// createCategoryRequest names the category to add to a domain.
type createCategoryRequest struct {
	Category string `json:"category"`
}

// handleCreateCategory godoc
// @Summary      Create custom category
// @Description  Add a category to a domain's custom category list (requires categories.create)
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        domain   path  string                  true  "Domain name"
// @Param        request  body  createCategoryRequest    true  "Category name"
// @Success      201  {object}  StatusResponse
// @Router       /categories/{domain} [post]
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	dom := r.PathValue("domain")

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	if err := s.categoryService.Create(r.Context(), dom, req.Category); err != nil {
		switch err {
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "unknown domain")
		case domain.ErrAlreadyExists:
			writeError(w, http.StatusConflict, "category already exists")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create category")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// handleDeleteCategory godoc
// @Summary      Delete custom category
// @Description  Remove a category from a domain's custom category list (requires categories.delete)
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Param        domain    path  string  true  "Domain name"
// @Param        category  path  string  true  "Category name"
// @Success      200  {object}  StatusResponse
// @Router       /categories/{domain}/{category} [delete]
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	dom := r.PathValue("domain")
	category := r.PathValue("category")

	if err := s.categoryService.Delete(r.Context(), dom, category); err != nil {
		switch err {
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "unknown domain")
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "category not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete category")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Admin dashboard + analytics

// dashboardResponse aggregates the figures the admin dashboard displays.
type dashboardResponse struct {
	UserCount     int `json:"user_count"`
	DocumentCount int `json:"document_count"`
}

// handleAdminDashboard godoc
// @Summary      Admin dashboard
// @Description  Aggregate counts for the admin dashboard (requires admin.dashboard)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Router       /admin/dashboard [get]
func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	users, err := s.userService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	docCount, err := s.docService.Count(r.Context(), authCtx.Role, driven.DocumentFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		UserCount:     len(users),
		DocumentCount: docCount,
	})
}

// handleAnalytics godoc
// @Summary      Analytics
// @Description  Serve the cached rolling analytics blob (requires analytics.view). The blob is maintained out of band with a five-minute TTL; this endpoint never computes analytics itself.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /analytics [get]
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.kvStore.HGetAll(r.Context(), "analytics:stats")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load analytics")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
