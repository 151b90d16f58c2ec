package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/labops/labaudit/pkg/domain/interfaces"
	"github.com/labops/labaudit/pkg/domain/types"
	"github.com/labops/labaudit/pkg/utils/logging"
)

// Server is the reference audit API backend. It serves the same REST surface
// the client core consumes, backed by a Repository.
type Server struct {
	router  *chi.Mux
	repo    interfaces.Repository
	catalog Catalog
}

// Catalog validates lab and category identifiers of incoming assignments.
type Catalog interface {
	HasLab(id types.LabID) bool
	HasCategory(id string) bool
}

// Option configures the Server
type Option func(*Server)

// WithCatalog enables lab/category validation against the given catalog.
func WithCatalog(c Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// New creates the HTTP server over the given repository.
func New(repo interfaces.Repository, opts ...Option) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		repo:   repo,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/assignments", func(r chi.Router) {
			r.Post("/", s.handleCreateAssignment)
			r.Get("/", s.handleListAssignments)
			r.Get("/{assignmentID}", s.handleGetAssignment)
			r.Post("/{assignmentID}/start", s.handleStartExecution)
		})
		r.Route("/executions", func(r chi.Router) {
			r.Get("/assignment/{assignmentID}", s.handleListExecutions)
			r.Get("/{executionID}", s.handleGetExecution)
			r.Put("/{executionID}/items/{itemID}", s.handleUpdateItem)
			r.Post("/{executionID}/complete", s.handleCompleteExecution)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func respondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Error("failed to encode response", "error", err.Error())
	}
}

func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logging.From(r.Context()).Info("access",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
