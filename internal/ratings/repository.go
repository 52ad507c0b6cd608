package ratings

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store is the narrow read contract onto the ratings table owned by the
// CRUD layer.
type Store interface {
	GetRatingsForUser(ctx context.Context, userID int64) ([]Rating, error)
	GetRatingsForRestaurant(ctx context.Context, restaurantID int64) ([]Rating, error)
	GetRatingsSince(ctx context.Context, since time.Time) ([]Rating, error)
	GetRatingCounts(ctx context.Context) (map[int64]int, error)
	GetActiveRaters(ctx context.Context, since time.Time) ([]int64, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a ratings store backed by Postgres.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) GetRatingsForUser(ctx context.Context, userID int64) ([]Rating, error) {
	var out []Rating
	query := `
		SELECT id, user_id, restaurant_id, rating, created_at
		FROM ratings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	err := s.db.SelectContext(ctx, &out, query, userID)
	return out, err
}

func (s *postgresStore) GetRatingsForRestaurant(ctx context.Context, restaurantID int64) ([]Rating, error) {
	var out []Rating
	query := `
		SELECT id, user_id, restaurant_id, rating, created_at
		FROM ratings
		WHERE restaurant_id = $1
		ORDER BY created_at DESC
	`
	err := s.db.SelectContext(ctx, &out, query, restaurantID)
	return out, err
}

func (s *postgresStore) GetRatingsSince(ctx context.Context, since time.Time) ([]Rating, error) {
	var out []Rating
	query := `
		SELECT id, user_id, restaurant_id, rating, created_at
		FROM ratings
		WHERE created_at > $1
		ORDER BY user_id, created_at
	`
	err := s.db.SelectContext(ctx, &out, query, since)
	return out, err
}

func (s *postgresStore) GetRatingCounts(ctx context.Context) (map[int64]int, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT user_id, COUNT(*) AS n
		FROM ratings
		GROUP BY user_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var n int
		if err := rows.Scan(&userID, &n); err != nil {
			return nil, err
		}
		counts[userID] = n
	}
	return counts, rows.Err()
}

func (s *postgresStore) GetActiveRaters(ctx context.Context, since time.Time) ([]int64, error) {
	var out []int64
	query := `
		SELECT DISTINCT user_id
		FROM ratings
		WHERE created_at > $1
		ORDER BY user_id
	`
	err := s.db.SelectContext(ctx, &out, query, since)
	return out, err
}

// ByUser groups ratings into per-user maps of restaurant id -> value,
// keeping only each user's most recent rating per restaurant.
func ByUser(all []Rating) map[int64]map[int64]float64 {
	out := make(map[int64]map[int64]float64)
	seen := make(map[int64]map[int64]time.Time)
	for _, r := range all {
		if out[r.RaterID] == nil {
			out[r.RaterID] = make(map[int64]float64)
			seen[r.RaterID] = make(map[int64]time.Time)
		}
		if prev, ok := seen[r.RaterID][r.RestaurantID]; ok && prev.After(r.CreatedAt) {
			continue
		}
		out[r.RaterID][r.RestaurantID] = r.Value
		seen[r.RaterID][r.RestaurantID] = r.CreatedAt
	}
	return out
}
