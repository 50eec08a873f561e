package api

import (
	"net/http"
	"time"

	"github.com/Rsm-Microstate/team-dev/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealthCheck)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/search", s.handleSearch)

	return r
}
