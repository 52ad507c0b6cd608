// internal/feedback/repository.go

package feedback

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Store persists feedback records.
type Store interface {
	Insert(ctx context.Context, record *Record) error
}

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a feedback store backed by Postgres.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Insert(ctx context.Context, record *Record) error {
	query := `
		INSERT INTO recommendation_feedback (id, user_id, restaurant_id, predicted_score, predicted_rank, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query, record.ID, record.UserID, record.RestaurantID,
		record.PredictedScore, record.PredictedRank, record.Outcome, record.CreatedAt)
	return err
}
