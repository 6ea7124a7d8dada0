package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/api"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/session"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/storage"
	"github.com/FACorreiaa/go-volunteerhub/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	storage storage.Storage
	client  *api.Client
	manager *session.Manager
	router  http.Handler
}

// New creates a new Server instance with all dependencies
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	st, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	s.storage = st

	client, err := api.New(api.Config{
		BaseURL:      cfg.API.BaseURL,
		Timeout:      cfg.API.Timeout,
		ProfileCache: cfg.API.ProfileCache,
	}, logger)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}
	s.client = client

	s.manager = session.NewManager(st, client, session.ManagerConfig{
		IdleTTL:        cfg.Session.IdleTTL,
		RestoreTimeout: cfg.Session.RestoreTimeout,
	}, logger)

	logger.Info("Server dependencies ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("api", cfg.API.BaseURL))
	return s, nil
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

func (s *Server) Manager() *session.Manager { return s.manager }

func (s *Server) Client() *api.Client { return s.client }

// Close waits for in-flight session restores, then closes storage.
func (s *Server) Close() {
	if s.manager != nil {
		s.manager.Wait()
	}
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			s.logger.Error("Failed to close storage", zap.Error(err))
		}
	}
}
