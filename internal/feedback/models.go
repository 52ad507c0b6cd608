// internal/feedback/models.go

package feedback

import "time"

// Feedback outcomes.
const (
	OutcomeClick  = "click"
	OutcomeVisit  = "visit"
	OutcomeRating = "rating"
)

// Record is one observed outcome for a recommendation that was shown.
// Records are append-only; they are consumed transitively through the
// ratings table on later similarity recomputes, never read back online.
type Record struct {
	ID             string    `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	RestaurantID   int64     `json:"restaurant_id" db:"restaurant_id"`
	PredictedScore float64   `json:"predicted_score" db:"predicted_score"`
	PredictedRank  int       `json:"predicted_rank" db:"predicted_rank"`
	Outcome        string    `json:"outcome" db:"outcome"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// SubmitRequest is the feedback endpoint payload.
type SubmitRequest struct {
	RestaurantID   int64   `json:"restaurant_id" validate:"required,gt=0"`
	PredictedScore float64 `json:"predicted_score" validate:"gte=0,lte=1"`
	PredictedRank  int     `json:"predicted_rank" validate:"required,gte=1"`
	Outcome        string  `json:"outcome" validate:"required,oneof=click visit rating"`
}
