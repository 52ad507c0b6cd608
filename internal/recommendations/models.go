// internal/recommendations/models.go

package recommendations

// Recommendation list types.
const (
	TypeForYou   = "for-you"
	TypeTrending = "trending"
	TypeSimilar  = "similar"
)

// Signal names used in component score maps and reasons.
const (
	SignalCollaborative = "collaborative"
	SignalContent       = "content"
	SignalSocialProof   = "social_proof"
	SignalTrending      = "trending"
	SignalPopularity    = "popularity"
)

// Context carries the per-request filters for a recommendation call.
// Limit is a pointer so an absent limit (defaulted) and an explicit zero
// (rejected) stay distinguishable.
type Context struct {
	Cuisines    []string `json:"cuisines"`
	PriceLevels []int    `json:"price_levels"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Limit       *int     `json:"limit"`
	Type        string   `json:"type"`
}

// Result is one ranked recommendation with its score breakdown.
type Result struct {
	RestaurantID    int64              `json:"restaurant_id"`
	Name            string             `json:"name"`
	CuisineType     string             `json:"cuisine_type"`
	Score           float64            `json:"score"`
	ComponentScores map[string]float64 `json:"component_scores"`
	Reason          string             `json:"reason"`
	Confidence      float64            `json:"confidence"`

	ratingCount int
}

// WeightedRating is the socially weighted aggregate for one (restaurant,
// viewer) pair. SampleSize is the effective, not raw, count.
type WeightedRating struct {
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
	SampleSize float64 `json:"sample_size"`
}

// Response is the recommendation list payload.
type Response struct {
	Type    string   `json:"type"`
	Mode    string   `json:"mode"`
	Epoch   string   `json:"epoch"`
	Results []Result `json:"results"`
}

// Recommendation modes. Full, content and popularity reflect data
// availability; trending lists are velocity-only regardless of it.
const (
	ModeFull       = "full"
	ModeContent    = "content"
	ModePopularity = "popularity"
	ModeTrending   = "trending"
)
