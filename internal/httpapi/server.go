// Package httpapi exposes the pipeline over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/metanotes/internal/auth"
	"github.com/abhisek/metanotes/internal/config"
	"github.com/abhisek/metanotes/internal/pipeline"
	"github.com/abhisek/metanotes/internal/usage"
)

// Server wires the pipeline and its collaborators to HTTP routes.
type Server struct {
	pipeline *pipeline.Service
	verifier *auth.Verifier
	usage    *usage.Store
}

// NewServer creates a Server over the given collaborators.
func NewServer(p *pipeline.Service, v *auth.Verifier, u *usage.Store) *Server {
	return &Server{pipeline: p, verifier: v, usage: u}
}

// Router builds the chi router with standard middleware and CORS.
func (s *Server) Router(cfg config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	// Generous timeout: a full pipeline run is six provider round trips.
	r.Use(middleware.Timeout(3 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.handleHealth)
	r.Post("/api/process", s.handleProcess)
	r.Post("/api/evaluate-quiz", s.handleEvaluateQuiz)

	return r
}
