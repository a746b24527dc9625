package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/thando/renthub/internal/api/handlers"
	"github.com/thando/renthub/internal/api/middleware"
	"github.com/thando/renthub/internal/authz"
	"github.com/thando/renthub/internal/config"
	"github.com/thando/renthub/internal/service"
	"github.com/thando/renthub/internal/storage"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, gate *authz.Gate, store storage.ObjectStore, cfg *config.Config, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, services.Profile)
	listingHandler := handlers.NewListingHandler(services.Listing, gate)
	profileHandler := handlers.NewProfileHandler(services.Profile)
	statsHandler := handlers.NewStatsHandler(services.Stats)
	uploadHandler := handlers.NewUploadHandler(store, log)

	requireAuth := middleware.Auth(services.Auth, log)
	optionalAuth := middleware.OptionalAuth(services.Auth, log)
	requireAdmin := middleware.RequireAdmin(gate)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.Post("/update-password", authHandler.UpdatePassword)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Listing routes: browsing is public (contact details redacted for
		// anonymous viewers), mutation requires auth
		r.Route("/listings", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(optionalAuth)
				r.Get("/", listingHandler.List)
				r.Get("/{id}", listingHandler.Get)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", listingHandler.Create)
				r.Put("/{id}", listingHandler.Update)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireAdmin)
				r.Put("/{id}/verified", listingHandler.SetVerified)
				r.Delete("/{id}", listingHandler.Delete)
			})
		})

		// Uploads
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/uploads", uploadHandler.Upload)
		})

		// Admin surface
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Get("/profiles", profileHandler.List)
			r.Put("/profiles/{id}/role", profileHandler.UpdateRole)
			r.Get("/stats", statsHandler.Overview)
		})
	})

	if cfg.EnableDevRoutes {
		r.Mount("/debug", chiMiddleware.Profiler())
	}

	return r
}
