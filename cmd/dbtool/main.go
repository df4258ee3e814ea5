package main

import (
	"context"
	"database/sql"
	"depot-analysis/internal/adapters/repositories"
	"depot-analysis/internal/config"
	"depot-analysis/internal/platform/db"
	"log"
)

// dbtool creates the cache and run tables. CACHE_BACKEND picks the
// database: postgres uses DATABASE_URL, sqlite uses DB_PATH.
func main() {
	config.LoadDotEnv()
	env := config.FromEnv()

	dialect, err := db.ParseDialect(env.CacheBackend)
	if err != nil {
		log.Fatalf("CACHE_BACKEND must be sqlite or postgres: %v", err)
	}

	var conn *sql.DB
	switch dialect {
	case db.Postgres:
		if env.DatabaseURL == "" {
			log.Fatal("DATABASE_URL is required")
		}
		conn, err = db.OpenPostgres(env.DatabaseURL)
	case db.SQLite:
		conn, err = db.OpenSQLite(env.DBPath)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Printf("Initializing %s schema...", dialect)
	if err := repositories.InitSchema(context.Background(), conn, dialect); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
