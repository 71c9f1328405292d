package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the store. A non-empty databaseURL selects Postgres;
// otherwise a local SQLite file is used so the service runs with zero
// external dependencies.
func Connect(databaseURL, sqlitePath string) (*sqlx.DB, error) {
	if databaseURL != "" {
		log.Println("🔌 Connecting to PostgreSQL...")
		db, err := sqlx.Connect("postgres", databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		log.Println("✅ PostgreSQL connection established")
		return db, nil
	}

	log.Printf("🔌 No DATABASE_URL set, using SQLite at %s", sqlitePath)
	if dir := filepath.Dir(sqlitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", sqlitePath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	log.Println("✅ SQLite connection established")
	return db, nil
}

// Migrate applies the schema. DDL is kept portable between Postgres and
// SQLite: TEXT uuid primary keys, BIGINT unix-second timestamps, JSON
// payloads in TEXT columns, scores as DOUBLE PRECISION.
func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Operator accounts for the AI admin surface
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('viewer', 'admin')),
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,

		// Named geographic regions scoping AI research and listings
		`CREATE TABLE IF NOT EXISTS areas (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			center_lat DOUBLE PRECISION NOT NULL,
			center_lng DOUBLE PRECISION NOT NULL,
			zoom_level INT NOT NULL DEFAULT 15,
			boundary TEXT,
			created_at BIGINT NOT NULL
		)`,

		// Physical waste receptacles; soft-deleted via is_active
		`CREATE TABLE IF NOT EXISTS trash_bins (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			address TEXT NOT NULL,
			trash_types TEXT NOT NULL,
			facility_type TEXT NOT NULL CHECK(facility_type IN (
				'convenience_store', 'station', 'park', 'vending_machine',
				'shopping_mall', 'restaurant', 'public_facility', 'other')),
			access_conditions TEXT,
			operating_hours TEXT,
			quality_score DOUBLE PRECISION NOT NULL DEFAULT 0.5
				CHECK(quality_score >= 0 AND quality_score <= 1),
			trust_score DOUBLE PRECISION NOT NULL DEFAULT 0.5
				CHECK(trust_score >= 0 AND trust_score <= 1),
			last_verified BIGINT,
			ai_verified BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,

		// User reports about specific bins
		`CREATE TABLE IF NOT EXISTS user_feedback (
			id TEXT PRIMARY KEY,
			trash_bin_id TEXT NOT NULL,
			feedback_type TEXT NOT NULL CHECK(feedback_type IN (
				'correct', 'incorrect_location', 'wrong_info', 'removed',
				'closed', 'damaged', 'full', 'other')),
			feedback_content TEXT,
			user_lat DOUBLE PRECISION,
			user_lng DOUBLE PRECISION,
			image_url TEXT,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at BIGINT NOT NULL,
			FOREIGN KEY (trash_bin_id) REFERENCES trash_bins(id) ON DELETE CASCADE
		)`,

		// Append-only sub-score snapshots
		`CREATE TABLE IF NOT EXISTS quality_metrics (
			id TEXT PRIMARY KEY,
			trash_bin_id TEXT NOT NULL,
			accuracy_score DOUBLE PRECISION NOT NULL,
			freshness_score DOUBLE PRECISION NOT NULL,
			reliability_score DOUBLE PRECISION NOT NULL,
			source_count INT NOT NULL DEFAULT 0,
			verification_method TEXT NOT NULL,
			measured_at BIGINT NOT NULL,
			FOREIGN KEY (trash_bin_id) REFERENCES trash_bins(id) ON DELETE CASCADE
		)`,

		// Corroborating data sources per bin
		`CREATE TABLE IF NOT EXISTS data_sources (
			id TEXT PRIMARY KEY,
			trash_bin_id TEXT NOT NULL,
			source_type TEXT NOT NULL,
			reliability_score DOUBLE PRECISION NOT NULL DEFAULT 0.5,
			collected_at BIGINT NOT NULL,
			FOREIGN KEY (trash_bin_id) REFERENCES trash_bins(id) ON DELETE CASCADE
		)`,

		// Append-only AI research audit trail
		`CREATE TABLE IF NOT EXISTS ai_research_history (
			id TEXT PRIMARY KEY,
			cycle_id TEXT NOT NULL,
			research_type TEXT NOT NULL,
			target_area_id TEXT NOT NULL,
			ai_service TEXT NOT NULL,
			results_count INT NOT NULL DEFAULT 0,
			quality_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			execution_time_ms BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL CHECK(status IN ('in_progress', 'completed', 'failed')),
			error_message TEXT,
			created_at BIGINT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_trash_bins_active ON trash_bins(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_trash_bins_location ON trash_bins(latitude, longitude)`,
		`CREATE INDEX IF NOT EXISTS idx_trash_bins_last_verified ON trash_bins(last_verified)`,
		`CREATE INDEX IF NOT EXISTS idx_user_feedback_bin_id ON user_feedback(trash_bin_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_feedback_created_at ON user_feedback(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_quality_metrics_bin_id ON quality_metrics(trash_bin_id)`,
		`CREATE INDEX IF NOT EXISTS idx_quality_metrics_measured_at ON quality_metrics(measured_at)`,
		`CREATE INDEX IF NOT EXISTS idx_data_sources_bin_id ON data_sources(trash_bin_id)`,
		`CREATE INDEX IF NOT EXISTS idx_research_history_cycle ON ai_research_history(cycle_id)`,
		`CREATE INDEX IF NOT EXISTS idx_research_history_created_at ON ai_research_history(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("✓ Database migrations completed")
	return nil
}
