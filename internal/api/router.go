package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.requestMetrics)
	r.Use(middleware.Recoverer)

	metricsHandler := s.metricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)
	r.Get("/api/health", s.handleHealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/submissions", s.handleSubmit)
		r.Get("/state", s.handleState)
		r.Get("/state/events", s.handleStateEvents)
	})

	if s.mcp != nil {
		r.Handle("/mcp", s.mcp)
	}

	return r
}
