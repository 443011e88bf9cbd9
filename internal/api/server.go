// Copyright (c) 2026 Fermata. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fermata-app/fermata/internal/catalog/favorite"
	"github.com/fermata-app/fermata/internal/catalog/person"
	"github.com/fermata-app/fermata/internal/catalog/piece"
	"github.com/fermata-app/fermata/internal/catalog/tag"
	"github.com/fermata-app/fermata/internal/catalog/video"
	"github.com/fermata-app/fermata/internal/platform/config"
	"github.com/fermata-app/fermata/internal/platform/constants"
	"github.com/fermata-app/fermata/internal/platform/middleware"
	"github.com/fermata-app/fermata/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles authentication routes (login, register, sessions).
	Auth *auth.Handler

	// Person manages composers and arrangers with their multilingual names.
	Person *person.Handler

	// Piece manages the works catalogue: pieces, movements, and arrangements.
	Piece *piece.Handler

	// Tag manages the shared tag vocabulary.
	Tag *tag.Handler

	// Video handles performance video submission and moderation.
	Video *video.Handler

	// Favorite handles per-user piece bookmarks.
	Favorite *favorite.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		api.Route("/persons", func(router chi.Router) {
			h.Person.RegisterRoutes(router)
		})

		// Videos and favorites hang off individual pieces, so their
		// piece-scoped endpoints share the /pieces subrouter.
		api.Route("/pieces", func(router chi.Router) {
			h.Piece.RegisterRoutes(router)
			h.Video.RegisterPieceRoutes(router)
			h.Favorite.RegisterPieceRoutes(router)
		})

		api.Route("/videos", func(router chi.Router) {
			h.Video.RegisterRoutes(router)
		})

		api.Route("/tags", func(router chi.Router) {
			h.Tag.RegisterRoutes(router)
		})

		api.Route("/me", func(router chi.Router) {
			router.Use(middleware.RequireAuth)
			h.Favorite.RegisterMeRoutes(router)
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
