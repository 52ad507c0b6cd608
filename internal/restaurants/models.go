package restaurants

import (
	"time"

	"github.com/lib/pq"
)

// Restaurant carries the static attributes this subsystem consumes from
// the restaurant CRUD layer.
type Restaurant struct {
	ID          int64          `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	CuisineType string         `json:"cuisine_type" db:"cuisine_type"`
	PriceLevel  int            `json:"price_level" db:"price_level"`
	Tags        pq.StringArray `json:"tags" db:"tags"`
	AvgRating   float64        `json:"avg_rating" db:"avg_rating"`
	RatingCount int            `json:"rating_count" db:"rating_count"`
	Latitude    float64        `json:"latitude" db:"latitude"`
	Longitude   float64        `json:"longitude" db:"longitude"`
	IsActive    bool           `json:"is_active" db:"is_active"`
}

// Filters narrows candidate restaurants for a recommendation request.
type Filters struct {
	Cuisines    []string
	PriceLevels []int
}

// ActivityEvent is one rating event inside the trending window.
type ActivityEvent struct {
	RestaurantID int64     `db:"restaurant_id"`
	CreatedAt    time.Time `db:"created_at"`
}
