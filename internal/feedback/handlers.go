// internal/feedback/handlers.go

package feedback

import (
	"encoding/json"
	"net/http"

	"github.com/sfuqua6/foodie/internal/auth"
	"github.com/sfuqua6/foodie/internal/common/utils"
)

// Handler handles feedback HTTP requests
type Handler struct {
	recorder *Recorder
}

// NewHandler creates a new feedback handler
func NewHandler(recorder *Recorder) *Handler {
	return &Handler{recorder: recorder}
}

// SubmitFeedback accepts one feedback event and acknowledges it.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.recorder.Record(r.Context(), userID, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithMessage(w, http.StatusAccepted, "Feedback recorded")
}
