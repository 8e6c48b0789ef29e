package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/file-finder/backend/internal/api/handlers"
	"github.com/file-finder/backend/internal/api/middleware"
	"github.com/file-finder/backend/internal/auth"
	"github.com/file-finder/backend/internal/command"
	"github.com/file-finder/backend/internal/config"
	"github.com/file-finder/backend/internal/db"
	"github.com/file-finder/backend/internal/metrics"
)

func NewRouter(cfg *config.Config, database *db.Database, jwtService *auth.JWTService, registry *command.Registry, m *metrics.Metrics, sessionLimiter *middleware.RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	sessionHandler := handlers.NewSessionHandler(jwtService, cfg.SecretHash)
	invokeHandler := handlers.NewInvokeHandler(registry)
	filesHandler := handlers.NewFilesHandler(cfg.BrowseRoot, registry)
	invocationsHandler := handlers.NewInvocationsHandler(database)

	r.Handle("/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(cfg.BodyLimit))

		// Public routes
		r.Get("/health", handlers.Health)
		r.With(sessionLimiter.Handler).Post("/session", sessionHandler.Create)

		// Protected routes
		r.Group(func(r chi.Router) {
			if cfg.AuthRequired() {
				r.Use(middleware.AuthMiddleware(jwtService))
			}

			// Command bridge
			r.Get("/invoke", invokeHandler.ListCommands)
			r.Post("/invoke/{command}", invokeHandler.Invoke)

			// Files
			r.Get("/files/tree", filesHandler.GetTree)
			r.Get("/files/tree/*", filesHandler.GetTree)
			r.Get("/files/search", filesHandler.Search)

			// Journal
			r.Get("/invocations", invocationsHandler.List)
		})
	})

	return r
}
