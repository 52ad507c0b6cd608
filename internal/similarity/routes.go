// internal/similarity/routes.go

package similarity

import (
	"github.com/go-chi/chi/v5"

	"github.com/sfuqua6/foodie/internal/auth"
)

// RegisterRoutes registers all similarity routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware *auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/api/v1/recommendations/similar-users", handler.GetSimilarUsers)
		r.Post("/api/v1/admin/similarity/recompute", handler.TriggerRecompute)
	})
}
