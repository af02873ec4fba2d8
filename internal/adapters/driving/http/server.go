package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	authService      driving.AuthService
	userService      driving.UserService
	roleService      driving.RoleService
	uploadService    driving.UploadService
	chatService      driving.ChatService
	docService       driving.DocumentService
	queryService     driving.QueryService
	classifyService  driving.ClassifyService
	categoryService  driving.CategoryService
	ingestScheduler  driving.Scheduler

	// Infrastructure
	kvStore     driven.KVStore // analytics blob + category side channel
	db          Pinger         // PostgreSQL health check
	redisClient Pinger         // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	authService driving.AuthService,
	userService driving.UserService,
	roleService driving.RoleService,
	uploadService driving.UploadService,
	chatService driving.ChatService,
	docService driving.DocumentService,
	queryService driving.QueryService,
	classifyService driving.ClassifyService,
	categoryService driving.CategoryService,
	ingestScheduler driving.Scheduler,
	kvStore driven.KVStore,
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	s := &Server{
		router:          http.NewServeMux(),
		version:         cfg.Version,
		authService:     authService,
		userService:     userService,
		roleService:     roleService,
		uploadService:   uploadService,
		chatService:     chatService,
		docService:      docService,
		queryService:    queryService,
		classifyService: classifyService,
		categoryService: categoryService,
		ingestScheduler: ingestScheduler,
		kvStore:         kvStore,
		db:              db,
		redisClient:     redisClient,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Create middleware
	authMiddleware := NewAuthMiddleware(s.authService)
	auth := authMiddleware.Authenticate

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Auth endpoints (public)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	s.router.HandleFunc("POST /api/v1/auth/refresh", s.handleRefresh)

	// Setup endpoint (public, one-time use)
	s.router.HandleFunc("POST /api/v1/setup", s.handleSetup)

	// Auth endpoints (authenticated)
	s.router.Handle("POST /api/v1/auth/logout", auth(http.HandlerFunc(s.handleLogout)))

	// Self-service user endpoints
	s.router.Handle("GET /api/v1/me", auth(http.HandlerFunc(s.handleGetMe)))
	s.router.Handle("PUT /api/v1/me/password", auth(http.HandlerFunc(s.handleChangePassword)))

	// Query / chat endpoints (authenticated)
	s.router.Handle("POST /api/v1/chat", auth(http.HandlerFunc(s.handleChat)))
	s.router.Handle("GET /api/v1/chats", auth(http.HandlerFunc(s.handleListChatSessions)))
	s.router.Handle("POST /api/v1/chats", auth(http.HandlerFunc(s.handleCreateChatSession)))
	s.router.Handle("GET /api/v1/chats/{id}", auth(http.HandlerFunc(s.handleGetChatSession)))
	s.router.Handle("DELETE /api/v1/chats/{id}", auth(http.HandlerFunc(s.handleDeleteChatSession)))

	// Classification dry-run (authenticated)
	s.router.Handle("POST /api/v1/classify", auth(http.HandlerFunc(s.handleClassify)))

	// Upload endpoint (requires files.upload)
	s.router.Handle("POST /api/v1/upload",
		auth(authMiddleware.RequireCapability(domain.CapFilesUpload)(http.HandlerFunc(s.handleUpload))))

	// File browsing / retrieval
	s.router.Handle("GET /api/v1/files", auth(http.HandlerFunc(s.handleListFiles)))
	s.router.Handle("GET /api/v1/files/duplicates",
		auth(authMiddleware.RequireCapability(domain.CapFilesViewDuplicates)(http.HandlerFunc(s.handleListDuplicates))))
	s.router.Handle("DELETE /api/v1/files/duplicates",
		auth(authMiddleware.RequireCapability(domain.CapFilesDeleteDuplicates)(http.HandlerFunc(s.handleDeleteDuplicates))))
	s.router.Handle("GET /api/v1/download/{id}",
		auth(authMiddleware.RequireCapability(domain.CapFilesDownload)(http.HandlerFunc(s.handleDownload))))
	s.router.Handle("DELETE /api/v1/files/{id}",
		auth(authMiddleware.RequireAnyCapability(domain.CapFilesDeleteOwn, domain.CapFilesDeleteAll)(http.HandlerFunc(s.handleDeleteFile))))

	// Category management
	s.router.Handle("GET /api/v1/categories/{domain}", auth(http.HandlerFunc(s.handleListCategories)))
	s.router.Handle("POST /api/v1/categories/{domain}",
		auth(authMiddleware.RequireCapability(domain.CapCategoriesCreate)(http.HandlerFunc(s.handleCreateCategory))))
	s.router.Handle("DELETE /api/v1/categories/{domain}/{category}",
		auth(authMiddleware.RequireCapability(domain.CapCategoriesDelete)(http.HandlerFunc(s.handleDeleteCategory))))

	// Admin dashboard + analytics
	s.router.Handle("GET /api/v1/admin/dashboard",
		auth(authMiddleware.RequireCapability(domain.CapAdminDashboard)(http.HandlerFunc(s.handleAdminDashboard))))
	s.router.Handle("GET /api/v1/analytics",
		auth(authMiddleware.RequireCapability(domain.CapAnalyticsView)(http.HandlerFunc(s.handleAnalytics))))

	// User administration (admin dashboard capability gates the whole section)
	s.router.Handle("GET /api/v1/users",
		auth(authMiddleware.RequireAdmin(http.HandlerFunc(s.handleListUsers))))
	s.router.Handle("POST /api/v1/users",
		auth(authMiddleware.RequireAdmin(http.HandlerFunc(s.handleCreateUser))))
	s.router.Handle("PUT /api/v1/users/{id}",
		auth(authMiddleware.RequireAdmin(http.HandlerFunc(s.handleUpdateUser))))
	s.router.Handle("DELETE /api/v1/users/{id}",
		auth(authMiddleware.RequireAdmin(http.HandlerFunc(s.handleDeleteUser))))
	s.router.Handle("PUT /api/v1/users/{id}/role",
		auth(authMiddleware.RequireAdmin(http.HandlerFunc(s.handleSetUserRole))))

	// Role administration
	s.router.Handle("GET /api/v1/roles",
		auth(authMiddleware.RequireAdmin(http.HandlerFunc(s.handleListRoles))))
	s.router.Handle("POST /api/v1/roles",
		auth(authMiddleware.RequireAdmin(http.HandlerFunc(s.handleCreateRole))))
	s.router.Handle("PUT /api/v1/roles/{id}",
		auth(authMiddleware.RequireAdmin(http.HandlerFunc(s.handleUpdateRole))))
	s.router.Handle("DELETE /api/v1/roles/{id}",
		auth(authMiddleware.RequireAdmin(http.HandlerFunc(s.handleDeleteRole))))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-stop
	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
