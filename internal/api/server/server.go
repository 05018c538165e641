package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/newsforge/hotevents/internal/api/middleware"
	"github.com/newsforge/hotevents/internal/api/rest"
	"github.com/newsforge/hotevents/internal/api/shared/executor"
	"github.com/newsforge/hotevents/internal/engine"
	"github.com/newsforge/hotevents/internal/logger"
	"github.com/newsforge/hotevents/internal/messaging"
	"github.com/newsforge/hotevents/internal/schedule"
	"github.com/newsforge/hotevents/internal/store"
	"github.com/newsforge/hotevents/internal/tenant"
)

// Config holds the server configuration
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	store      store.Store
	clustering engine.Clustering
	embedding  engine.Embedding
	scheduler  engine.Scheduler
	publisher  messaging.Publisher
	httpServer *http.Server
}

// New creates a new API server
func New(
	cfg Config,
	s store.Store,
	clustering engine.Clustering,
	embedding engine.Embedding,
	scheduler engine.Scheduler,
	publisher messaging.Publisher,
) *Server {
	return &Server{
		config:     cfg,
		store:      s,
		clustering: clustering,
		embedding:  embedding,
		scheduler:  scheduler,
		publisher:  publisher,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())

	// Wire the executor: store, engine gateways, schedule coordinator,
	// lifecycle event publisher
	coordinator := schedule.NewCoordinator(s.store, s.scheduler)
	exec := executor.NewExecutor(s.store, s.clustering, s.embedding, coordinator, s.publisher)

	// Create REST handler and routes with per-request tenant resolution
	restHandler := rest.NewHandler(exec)
	directory := tenant.NewDirectory(s.store)
	rest.SetupRoutes(router, restHandler, directory)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
