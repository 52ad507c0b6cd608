package ratings

import "time"

// Rating is a single raw rating. Raw ratings are the source of truth for
// every derived statistic in this service; they are written by the CRUD
// layer and read-only here.
type Rating struct {
	ID           int64     `json:"id" db:"id"`
	RaterID      int64     `json:"rater_id" db:"user_id"`
	RestaurantID int64     `json:"restaurant_id" db:"restaurant_id"`
	Value        float64   `json:"value" db:"rating"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
