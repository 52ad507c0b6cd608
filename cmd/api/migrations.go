// cmd/api/migrations.go

package main

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// runMigrations creates the tables this service owns. The ratings and
// restaurants tables belong to the CRUD layer and are created here only
// so the service can run standalone in development.
func runMigrations(db *sqlx.DB) error {
	log.Println("   - Creating/updating tables...")

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			cuisine_type VARCHAR(100) NOT NULL,
			price_level INTEGER NOT NULL DEFAULT 2,
			tags TEXT[] NOT NULL DEFAULT '{}',
			avg_rating DOUBLE PRECISION DEFAULT 0,
			latitude DOUBLE PRECISION DEFAULT 0,
			longitude DOUBLE PRECISION DEFAULT 0,
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS ratings (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			restaurant_id BIGINT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
			rating DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS preference_profiles (
			user_id BIGINT PRIMARY KEY,
			categories JSONB NOT NULL,
			completed_rounds INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			strength DOUBLE PRECISION NOT NULL DEFAULT 0,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS similarity_epochs (
			epoch VARCHAR(64) PRIMARY KEY,
			computed_at TIMESTAMP NOT NULL,
			num_clusters INTEGER NOT NULL DEFAULT 0,
			clusters JSONB NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS user_similarities (
			epoch VARCHAR(64) NOT NULL,
			user_a BIGINT NOT NULL,
			user_b BIGINT NOT NULL,
			rating_sim DOUBLE PRECISION NOT NULL DEFAULT 0,
			has_rating_sim BOOLEAN NOT NULL DEFAULT FALSE,
			pref_sim DOUBLE PRECISION NOT NULL DEFAULT 0,
			overall DOUBLE PRECISION NOT NULL DEFAULT 0,
			PRIMARY KEY (epoch, user_a, user_b)
		)`,

		`CREATE TABLE IF NOT EXISTS recommendation_feedback (
			id VARCHAR(64) PRIMARY KEY,
			user_id BIGINT NOT NULL,
			restaurant_id BIGINT NOT NULL,
			predicted_score DOUBLE PRECISION NOT NULL,
			predicted_rank INTEGER NOT NULL,
			outcome VARCHAR(20) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_ratings_user_id ON ratings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_restaurant_id ON ratings(restaurant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_created_at ON ratings(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_restaurants_cuisine ON restaurants(cuisine_type)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_user_id ON recommendation_feedback(user_id)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
