package repositories

import (
	"context"
	"database/sql"
	"depot-analysis/internal/platform/db"
	"errors"
	"fmt"
)

// InitSchema creates the cache and run tables for the given dialect.
// It is idempotent.
func InitSchema(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	floatType := "REAL"
	if dialect == db.Postgres {
		floatType = "DOUBLE PRECISION"
	}

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
        profile TEXT NOT NULL,
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters INTEGER NOT NULL,
        duration_seconds INTEGER NOT NULL,
        fetched_at BIGINT NOT NULL,
        PRIMARY KEY (profile, origin, destination)
    );
	`

	createGeocodeCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon %[1]s NOT NULL,
        lat %[1]s NOT NULL
    );
	`, floatType)

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS comparison_runs (
        run_id TEXT PRIMARY KEY,
        created_at BIGINT NOT NULL,
        summaries TEXT NOT NULL,
        missing INTEGER NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
    ON distance_cache(destination, origin);
	`

	statements := []string{
		createDistanceCacheQuery,
		createGeocodeCacheQuery,
		createRunsQuery,
		createIndexQuery,
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
