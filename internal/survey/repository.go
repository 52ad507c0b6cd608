// internal/survey/repository.go

package survey

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrProfileNotFound = errors.New("preference profile not found")

// Store persists preference profiles. Submission is a full overwrite per
// user, never a merge.
type Store interface {
	Upsert(ctx context.Context, profile *PreferenceProfile) error
	Get(ctx context.Context, userID int64) (*PreferenceProfile, error)
	Delete(ctx context.Context, userID int64) error
	GetAll(ctx context.Context) ([]PreferenceProfile, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a profile store backed by Postgres.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

type profileRow struct {
	UserID          int64     `db:"user_id"`
	Categories      []byte    `db:"categories"`
	CompletedRounds int       `db:"completed_rounds"`
	Score           int       `db:"score"`
	Strength        float64   `db:"strength"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (row *profileRow) toProfile() (*PreferenceProfile, error) {
	p := &PreferenceProfile{
		UserID:          row.UserID,
		CompletedRounds: row.CompletedRounds,
		Score:           row.Score,
		Strength:        row.Strength,
		UpdatedAt:       row.UpdatedAt,
	}
	if err := json.Unmarshal(row.Categories, &p.Categories); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *postgresStore) Upsert(ctx context.Context, profile *PreferenceProfile) error {
	categories, err := json.Marshal(profile.Categories)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO preference_profiles (user_id, categories, completed_rounds, score, strength, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			categories = EXCLUDED.categories,
			completed_rounds = EXCLUDED.completed_rounds,
			score = EXCLUDED.score,
			strength = EXCLUDED.strength,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query, profile.UserID, categories,
		profile.CompletedRounds, profile.Score, profile.Strength, profile.UpdatedAt)
	return err
}

func (s *postgresStore) Get(ctx context.Context, userID int64) (*PreferenceProfile, error) {
	var row profileRow
	query := `
		SELECT user_id, categories, completed_rounds, score, strength, updated_at
		FROM preference_profiles
		WHERE user_id = $1
	`
	err := s.db.GetContext(ctx, &row, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toProfile()
}

func (s *postgresStore) Delete(ctx context.Context, userID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM preference_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *postgresStore) GetAll(ctx context.Context) ([]PreferenceProfile, error) {
	var rows []profileRow
	query := `
		SELECT user_id, categories, completed_rounds, score, strength, updated_at
		FROM preference_profiles
		ORDER BY user_id
	`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	out := make([]PreferenceProfile, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toProfile()
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}
