package rest

import (
	"log/slog"
	"net/http"

	"github.com/Harmony-Global/harmony-admin/internal/auth"
	"github.com/Harmony-Global/harmony-admin/internal/directory"
	"github.com/Harmony-Global/harmony-admin/internal/transport/middleware"
	"github.com/Harmony-Global/harmony-admin/internal/transport/swagger"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
)

// RegisterAllRoutes wires middleware and the full API surface onto router.
func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, authHandler *auth.Handler, userHandler *directory.Handler, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec at root, swagger UI alongside
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil && userHandler != nil {
			// Protected routes that require the current session token
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				pr.Get("/auth/me", authHandler.Me)

				pr.Route("/users", func(ur chi.Router) {
					ur.Get("/", userHandler.ListUsers)
					ur.Get("/stats", userHandler.GetStats)
					ur.Get("/{id}", userHandler.GetUser)
					ur.Patch("/{id}/blacklist", userHandler.BlacklistUser)
					ur.Patch("/{id}/activate", userHandler.ActivateUser)
				})
			})
		}
	})
}
