// internal/survey/models.go

package survey

import "time"

// Selection is one option picked within a round, in click order.
type Selection struct {
	OptionID       string `json:"option_id" validate:"required"`
	SelectionOrder int    `json:"selection_order" validate:"required,gte=1"`
}

// Round is one completed survey round for a single category.
type Round struct {
	Category   string      `json:"category" validate:"required"`
	Selections []Selection `json:"selections" validate:"required,min=1,dive"`
}

// SurveySubmission is the full payload of a survey run. Rounds may cover
// fewer than all categories when the player stops early.
type SurveySubmission struct {
	Rounds []Round `json:"rounds" validate:"required,min=1,dive"`
}

// OptionWeight is the derived preference weight for one selected option.
type OptionWeight struct {
	Weight         float64 `json:"weight"`
	RoundSurvived  int     `json:"round_survived"`
	SelectionOrder int     `json:"selection_order"`
}

// PreferenceProfile is a user's complete elicited preference state.
// Resubmission replaces it wholesale; weights are never merged.
type PreferenceProfile struct {
	UserID          int64                              `json:"user_id"`
	Categories      map[string]map[string]OptionWeight `json:"categories"`
	CompletedRounds int                                `json:"completed_rounds"`
	Score           int                                `json:"score"`
	Strength        float64                            `json:"strength"`
	UpdatedAt       time.Time                          `json:"updated_at"`
}

// ProfileSummary is the compact submission response.
type ProfileSummary struct {
	CompletedRounds int     `json:"completed_rounds"`
	Score           int     `json:"score"`
	Strength        float64 `json:"strength"`
}

// RecommendationPreview is one entry of the small recommendation list
// returned alongside a successful submission.
type RecommendationPreview struct {
	RestaurantID int64   `json:"restaurant_id"`
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	Reason       string  `json:"reason"`
}

// SubmitResult pairs the stored profile summary with its preview.
type SubmitResult struct {
	Profile ProfileSummary          `json:"profile"`
	Preview []RecommendationPreview `json:"preview"`
}

// TasteAnalysis is the derived read-only view of a profile.
type TasteAnalysis struct {
	TopPreferences  map[string][]string `json:"top_preferences"`
	DiversityScore  float64             `json:"diversity_score"`
	AdventureLevel  string              `json:"adventure_level"`
	ProfileStrength float64             `json:"profile_strength"`
	CompletedRounds int                 `json:"completed_rounds"`
}
