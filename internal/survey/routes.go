// internal/survey/routes.go

package survey

import (
	"github.com/go-chi/chi/v5"

	"github.com/sfuqua6/foodie/internal/auth"
)

// RegisterRoutes registers all survey routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware *auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/api/v1/survey/submit", handler.SubmitSurvey)
		r.Get("/api/v1/survey/preferences", handler.GetPreferences)
		r.Delete("/api/v1/survey/preferences", handler.DeletePreferences)
		r.Get("/api/v1/survey/analysis", handler.GetAnalysis)
	})
}
