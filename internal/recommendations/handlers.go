// internal/recommendations/handlers.go

package recommendations

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/sfuqua6/foodie/internal/auth"
	"github.com/sfuqua6/foodie/internal/common/utils"
)

// Handler handles recommendation HTTP requests
type Handler struct {
	engine *Engine
}

// NewHandler creates a new recommendations handler
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// GetRecommendations serves the ranked list with filters in the query
// string.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	reqCtx, err := contextFromQuery(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respond(w, r, reqCtx)
}

// PostRecommendations serves the ranked list with filters in the body.
func (h *Handler) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	var reqCtx Context
	if err := json.NewDecoder(r.Body).Decode(&reqCtx); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.respond(w, r, &reqCtx)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, reqCtx *Context) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.engine.Recommend(r.Context(), userID, reqCtx)
	if err != nil {
		if utils.IsValidationError(err) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		// A scoring failure degrades to the popularity list rather than
		// erroring; recommendations are never a hard dependency.
		log.Printf("recommendations: scoring for user %d failed, serving popularity: %v", userID, err)
		degradedResponses.Inc()
		resp, err = h.engine.Popularity(r.Context(), reqCtx)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build recommendations")
			return
		}
	}

	utils.RespondWithData(w, http.StatusOK, resp)
}

// contextFromQuery parses ?type=&limit=&cuisines=&price_levels=&lat=&lng=.
func contextFromQuery(r *http.Request) (*Context, error) {
	q := r.URL.Query()
	reqCtx := &Context{Type: q.Get("type")}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, utils.NewValidationError("limit", "must be an integer")
		}
		reqCtx.Limit = &limit
	}

	if raw := q.Get("cuisines"); raw != "" {
		reqCtx.Cuisines = strings.Split(raw, ",")
	}

	if raw := q.Get("price_levels"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			level, err := strconv.Atoi(part)
			if err != nil {
				return nil, utils.NewValidationError("price_levels", "must be a comma-separated list of integers")
			}
			reqCtx.PriceLevels = append(reqCtx.PriceLevels, level)
		}
	}

	if raw := q.Get("lat"); raw != "" {
		lat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, utils.NewValidationError("lat", "must be a number")
		}
		reqCtx.Latitude = &lat
	}
	if raw := q.Get("lng"); raw != "" {
		lng, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, utils.NewValidationError("lng", "must be a number")
		}
		reqCtx.Longitude = &lng
	}

	return reqCtx, nil
}
