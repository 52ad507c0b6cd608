// internal/feedback/routes.go

package feedback

import (
	"github.com/go-chi/chi/v5"

	"github.com/sfuqua6/foodie/internal/auth"
)

// RegisterRoutes registers all feedback routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware *auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/api/v1/feedback", handler.SubmitFeedback)
	})
}
