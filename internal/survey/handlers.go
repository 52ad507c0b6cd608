// internal/survey/handlers.go

package survey

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sfuqua6/foodie/internal/auth"
	"github.com/sfuqua6/foodie/internal/common/utils"
)

// Handler handles survey-related HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new survey handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// SubmitSurvey handles a full survey submission
func (h *Handler) SubmitSurvey(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var sub SurveySubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&sub); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.SubmitSurvey(r.Context(), userID, &sub)
	if err != nil {
		if utils.IsValidationError(err) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save survey")
		return
	}

	utils.RespondWithData(w, http.StatusCreated, result)
}

// GetPreferences returns the caller's stored preference profile
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "No preference profile found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get preferences")
		return
	}

	utils.RespondWithData(w, http.StatusOK, profile)
}

// DeletePreferences resets the caller's preference profile
func (h *Handler) DeletePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.service.DeleteProfile(r.Context(), userID); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "No preference profile found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete preferences")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Preference profile deleted")
}

// GetAnalysis returns the caller's taste analysis
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	analysis, err := h.service.GetAnalysis(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "No preference profile found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to analyze preferences")
		return
	}

	utils.RespondWithData(w, http.StatusOK, analysis)
}
