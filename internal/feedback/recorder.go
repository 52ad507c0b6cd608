// internal/feedback/recorder.go

package feedback

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sfuqua6/foodie/internal/common/utils"
)

// Recorder validates and stores recommendation feedback. Validation
// failures are the caller's problem; storage failures are ours and are
// logged rather than surfaced, since feedback loss must never break the
// product flow that triggered it.
type Recorder struct {
	store Store
}

// NewRecorder creates a feedback recorder.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record accepts one feedback event. Returns an error only for invalid
// input.
func (r *Recorder) Record(ctx context.Context, userID int64, req *SubmitRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	record := &Record{
		ID:             uuid.New().String(),
		UserID:         userID,
		RestaurantID:   req.RestaurantID,
		PredictedScore: req.PredictedScore,
		PredictedRank:  req.PredictedRank,
		Outcome:        req.Outcome,
		CreatedAt:      time.Now().UTC(),
	}

	if err := r.store.Insert(ctx, record); err != nil {
		log.Printf("feedback: storing record for user %d failed: %v", userID, err)
	}
	return nil
}
