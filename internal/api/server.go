package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/seo-meta-service/internal/config"
	"github.com/user/seo-meta-service/internal/domain"
	"github.com/user/seo-meta-service/internal/lifecycle"
	"github.com/user/seo-meta-service/internal/monitoring"
)

// Controller is the part of lifecycle.Controller the HTTP layer uses.
type Controller interface {
	Submit(in domain.AnalysisInputs) uint64
	State() domain.RequestState
	Subscribe() (<-chan domain.RequestState, func())
}

// Option configures optional routes.
type Option func(*Server)

// WithMCP mounts h at /mcp.
func WithMCP(h http.Handler) Option {
	return func(s *Server) { s.mcp = h }
}

// WithMetricsHandler replaces the default Prometheus handler at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metricsHandler = h }
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	config         *config.Config
	router         http.Handler
	httpServer     *http.Server
	runner         lifecycle.Runner
	controller     Controller
	mcp            http.Handler
	metricsHandler http.Handler
	metrics        *monitoring.Metrics
	logger         *zap.Logger
}

func NewServer(cfg *config.Config, runner lifecycle.Runner, ctrl Controller, m *monitoring.Metrics, l *zap.Logger, opts ...Option) *Server {
	s := &Server{
		config:     cfg,
		runner:     runner,
		controller: ctrl,
		metrics:    m,
		logger:     l,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.setupRouter()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		// No WriteTimeout: generations can take a while and /api/state/events streams
		IdleTimeout: 60 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
