package restaurants

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrNotFound = errors.New("restaurant not found")

// Store is the narrow read contract onto the restaurant tables owned by
// the CRUD layer.
type Store interface {
	GetRestaurant(ctx context.Context, id int64) (*Restaurant, error)
	ListActive(ctx context.Context, filters *Filters) ([]Restaurant, error)
	GetRecentActivity(ctx context.Context, since time.Time) ([]ActivityEvent, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a restaurant store backed by Postgres.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

const restaurantColumns = `
	r.id, r.name, r.cuisine_type, r.price_level, r.tags,
	COALESCE(r.avg_rating, 0) AS avg_rating,
	(SELECT COUNT(*) FROM ratings WHERE restaurant_id = r.id) AS rating_count,
	r.latitude, r.longitude, r.is_active
`

func (s *postgresStore) GetRestaurant(ctx context.Context, id int64) (*Restaurant, error) {
	var r Restaurant
	query := `SELECT ` + restaurantColumns + ` FROM restaurants r WHERE r.id = $1`

	err := s.db.GetContext(ctx, &r, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *postgresStore) ListActive(ctx context.Context, filters *Filters) ([]Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants r WHERE r.is_active = TRUE`
	args := []interface{}{}

	if filters != nil && len(filters.Cuisines) > 0 {
		args = append(args, pq.Array(filters.Cuisines))
		query += ` AND r.cuisine_type = ANY($1)`
	}
	if filters != nil && len(filters.PriceLevels) > 0 {
		args = append(args, pq.Array(filters.PriceLevels))
		if len(args) == 2 {
			query += ` AND r.price_level = ANY($2)`
		} else {
			query += ` AND r.price_level = ANY($1)`
		}
	}

	query += ` ORDER BY r.id`

	var out []Restaurant
	err := s.db.SelectContext(ctx, &out, query, args...)
	return out, err
}

func (s *postgresStore) GetRecentActivity(ctx context.Context, since time.Time) ([]ActivityEvent, error) {
	var out []ActivityEvent
	query := `
		SELECT restaurant_id, created_at
		FROM ratings
		WHERE created_at > $1
		ORDER BY restaurant_id, created_at
	`
	err := s.db.SelectContext(ctx, &out, query, since)
	return out, err
}
