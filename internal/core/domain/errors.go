package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrIngestInProgress indicates the same destination path is already being written
	ErrIngestInProgress = errors.New("ingest already in progress")

	// ErrExtractorNotFound indicates no extractor is registered for the file extension
	ErrExtractorNotFound = errors.New("extractor not found")

	// ErrExtract indicates text extraction from a file failed
	ErrExtract = errors.New("extraction failed")

	// ErrClassify indicates classification could not produce a result
	ErrClassify = errors.New("classification failed")

	// ErrIndex indicates the vector store rejected an add/query/delete operation
	ErrIndex = errors.New("indexing failed")

	// ErrAccessDenied indicates RBAC denied access to a specific document or category
	ErrAccessDenied = errors.New("access denied")

	// ErrQuotaExceeded indicates the user's pending-upload quota is full
	ErrQuotaExceeded = errors.New("upload quota exceeded")

	// ErrConflict indicates a naming or state collision that the caller must resolve
	ErrConflict = errors.New("conflict")

	// ErrModelUnavailable indicates the configured LLM or embedding provider could not be reached
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrFileTooLarge indicates an uploaded file exceeds MaxUploadSizeBytes
	ErrFileTooLarge = errors.New("file too large")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrSessionNotFound indicates the session does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidCredentials indicates wrong email/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates the AI service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
