// file: internal/server/server.go
// version: 2.0.0
// guid: 4b5c6d7e-8f9a-0b1c-2d3e-4f5a6b7c8d9e

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdfalk/apicache/internal/fetch"
	"github.com/jdfalk/apicache/internal/logging"
	"github.com/jdfalk/apicache/internal/marketplace"
	"github.com/jdfalk/apicache/internal/metrics"
	"github.com/jdfalk/apicache/internal/server/middleware"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine

	fetcher     *fetch.Fetcher
	marketplace *marketplace.Client
	limiter     *middleware.ClientRateLimiter
	admin       atomic.Value // middleware.AdminCredentials
	startedAt   time.Time
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Options wires the server to its dependencies.
type Options struct {
	Fetcher      *fetch.Fetcher
	Marketplace  *marketplace.Client
	Admin        middleware.AdminCredentials
	MaxBodyBytes int64

	// RequestsPerMinute <= 0 disables rate limiting.
	RequestsPerMinute int
	Burst             int
}

// NewServer creates a new server instance
func NewServer(opts Options) *Server {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(corsMiddleware())

	metrics.Register()

	server := &Server{
		router:      router,
		fetcher:     opts.Fetcher,
		marketplace: opts.Marketplace,
		startedAt:   time.Now(),
	}
	server.SetAdminCredentials(opts.Admin)

	if server.marketplace == nil && server.fetcher != nil {
		server.marketplace = marketplace.NewClient(server.fetcher, marketplace.TTLs{})
	}
	if opts.RequestsPerMinute > 0 {
		server.limiter = middleware.NewClientRateLimiter(opts.RequestsPerMinute, opts.Burst)
	}
	router.Use(middleware.MaxRequestBodySize(opts.MaxBodyBytes))

	server.setupRoutes()

	return server
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetAdminCredentials replaces the secret guarding cache mutation routes.
func (s *Server) SetAdminCredentials(creds middleware.AdminCredentials) {
	s.admin.Store(creds)
}

func (s *Server) adminCredentials() middleware.AdminCredentials {
	creds, _ := s.admin.Load().(middleware.AdminCredentials)
	return creds
}

// Start runs the server until SIGINT or SIGTERM.
func (s *Server) Start(cfg ServerConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx, cfg)
}

// Run serves until ctx is done, then gives outstanding requests a deadline
// for completion.
func (s *Server) Run(ctx context.Context, cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("Starting server on %s (backend %s)", s.httpServer.Addr, s.backendURL())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Infof("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logging.Infof("Server exited")
	return nil
}

func (s *Server) backendURL() string {
	if s.fetcher == nil {
		return ""
	}
	return s.fetcher.BaseURL()
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/api/v1/health", s.healthCheck)

	api := s.router.Group("/api/v1")
	if s.limiter != nil {
		api.Use(s.limiter.Middleware())
	}
	admin := middleware.RequireAdminToken(s.adminCredentials)

	{
		api.GET("/cache/stats", admin, s.cacheStats)
		api.POST("/cache/invalidate", admin, s.invalidateCache)
		api.DELETE("/cache", admin, s.clearCache)

		api.GET("/proxy/*path", s.proxy)

		api.GET("/models", s.listModels)
		api.POST("/models", admin, s.registerModel)
		api.GET("/models/:id", s.getModel)
		api.GET("/datasets", s.listDatasets)
		api.GET("/usage", s.getUsage)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// GetDefaultServerConfig returns default server configuration
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Host:         "localhost",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
