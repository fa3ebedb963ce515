// Package server exposes event planning over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/eventplan/internal/planner"
)

// Server implements the HTTP API for the planner
type Server struct {
	planner     *planner.Service
	mcp         http.Handler
	version     string
	maxBatch    int
	shutdownTTL time.Duration
}

// Option configures a Server
type Option func(*Server)

// WithMCPHandler mounts an MCP streamable HTTP handler at /mcp
func WithMCPHandler(h http.Handler) Option {
	return func(s *Server) {
		s.mcp = h
	}
}

// WithVersion sets the version reported by /health
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithMaxBatch caps the number of events accepted by POST /plans/batch
func WithMaxBatch(n int) Option {
	return func(s *Server) {
		s.maxBatch = n
	}
}

const (
	defaultMaxBatch    = 20
	defaultShutdownTTL = 10 * time.Second
)

// NewServer creates a new HTTP API server
func NewServer(p *planner.Service, opts ...Option) *Server {
	s := &Server{
		planner:     p,
		version:     "dev",
		maxBatch:    defaultMaxBatch,
		shutdownTTL: defaultShutdownTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetupRoutes configures and returns the HTTP router with all API endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default()
		}),
	))

	router.GET("/health", s.handleHealth)

	plans := router.Group("/plans")
	{
		plans.GET("", s.listPlans)
		plans.POST("", s.createPlan)
		plans.POST("/batch", s.createPlans)
		plans.GET("/:id", s.getPlan)
		plans.GET("/:id/markdown", s.getPlanMarkdown)
		plans.DELETE("/:id", s.deletePlan)
	}

	if s.mcp != nil {
		router.Any("/mcp", gin.WrapH(s.mcp))
	}

	return router
}

// Run serves the API on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("http server listening", "addr", addr)
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTTL)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Service: "eventplan",
		Version: s.version,
		Status:  "healthy",
		Archive: s.planner.HasArchive(),
	})
}
