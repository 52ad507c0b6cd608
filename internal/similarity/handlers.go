// internal/similarity/handlers.go

package similarity

import (
	"net/http"
	"strconv"

	"github.com/sfuqua6/foodie/internal/auth"
	"github.com/sfuqua6/foodie/internal/common/utils"
	"github.com/sfuqua6/foodie/internal/config"
)

// Handler handles similarity-related HTTP requests
type Handler struct {
	store     *SnapshotStore
	scheduler *Scheduler
	cfg       *config.Config
}

// NewHandler creates a new similarity handler
func NewHandler(store *SnapshotStore, scheduler *Scheduler, cfg *config.Config) *Handler {
	return &Handler{store: store, scheduler: scheduler, cfg: cfg}
}

// GetSimilarUsers returns the caller's most similar users from the
// current epoch.
func (h *Handler) GetSimilarUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := h.cfg.NeighborLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	snap := h.store.Current()
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"epoch":         snap.Epoch,
		"computed_at":   snap.ComputedAt,
		"similar_users": snap.Neighbors(userID, limit),
	})
}

// TriggerRecompute runs an out-of-cycle similarity recompute. The run is
// synchronous but bounded by the configured budget.
func (h *Handler) TriggerRecompute(w http.ResponseWriter, r *http.Request) {
	h.scheduler.RunOnce(r.Context())

	snap := h.store.Current()
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"epoch":        snap.Epoch,
		"computed_at":  snap.ComputedAt,
		"pair_count":   snap.PairCount(),
		"num_clusters": snap.NumClusters,
	})
}
