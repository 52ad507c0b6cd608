// internal/similarity/repository.go
// Durable copy of the latest similarity epoch. Used only to warm-start
// the in-memory snapshot after a restart; the online read path never
// touches these tables.

package similarity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNoEpoch = errors.New("no persisted similarity epoch")

// Repository persists and restores similarity snapshots.
type Repository interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	LoadLatest(ctx context.Context) (*Snapshot, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a snapshot repository backed by Postgres.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

type epochRow struct {
	Epoch       string    `db:"epoch"`
	ComputedAt  time.Time `db:"computed_at"`
	NumClusters int       `db:"num_clusters"`
	Clusters    []byte    `db:"clusters"`
}

func (r *postgresRepository) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	clusters, err := json.Marshal(snap.Clusters())
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO similarity_epochs (epoch, computed_at, num_clusters, clusters)
		VALUES ($1, $2, $3, $4)
	`, snap.Epoch, snap.ComputedAt, snap.NumClusters, clusters)
	if err != nil {
		return err
	}

	// One row set per epoch; older epochs are pruned rather than updated
	// so a snapshot on disk is always internally consistent.
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_similarities WHERE epoch <> $1`, snap.Epoch); err != nil {
		return err
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO user_similarities (epoch, user_a, user_b, rating_sim, has_rating_sim, pref_sim, overall)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range snap.Pairs() {
		if _, err := stmt.ExecContext(ctx, snap.Epoch, p.UserA, p.UserB,
			p.RatingSim, p.HasRatingSim, p.PrefSim, p.Overall); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM similarity_epochs WHERE epoch <> $1`, snap.Epoch); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresRepository) LoadLatest(ctx context.Context) (*Snapshot, error) {
	var row epochRow
	err := r.db.GetContext(ctx, &row, `
		SELECT epoch, computed_at, num_clusters, clusters
		FROM similarity_epochs
		ORDER BY computed_at DESC
		LIMIT 1
	`)
	if err == sql.ErrNoRows {
		return nil, ErrNoEpoch
	}
	if err != nil {
		return nil, err
	}

	var clusters map[int64]int
	if err := json.Unmarshal(row.Clusters, &clusters); err != nil {
		return nil, err
	}

	var pairs []Pair
	err = r.db.SelectContext(ctx, &pairs, `
		SELECT user_a, user_b, rating_sim, has_rating_sim, pref_sim, overall
		FROM user_similarities
		WHERE epoch = $1
	`, row.Epoch)
	if err != nil {
		return nil, err
	}
	if err := validatePairs(pairs); err != nil {
		return nil, err
	}

	return NewSnapshot(row.Epoch, row.ComputedAt, pairs, clusters, row.NumClusters), nil
}
