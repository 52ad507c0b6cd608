// internal/recommendations/routes.go

package recommendations

import (
	"github.com/go-chi/chi/v5"

	"github.com/sfuqua6/foodie/internal/auth"
)

// RegisterRoutes registers all recommendation routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware *auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/api/v1/recommendations", handler.GetRecommendations)
		r.Post("/api/v1/recommendations", handler.PostRecommendations)
	})
}
