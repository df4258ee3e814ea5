// Package app assembles adapters from the environment for the binaries.
package app

import (
	"context"
	"database/sql"
	"depot-analysis/internal/adapters/cache"
	"depot-analysis/internal/adapters/distance"
	"depot-analysis/internal/adapters/repositories"
	"depot-analysis/internal/config"
	"depot-analysis/internal/platform/db"
	"depot-analysis/internal/ports"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Components are the wired adapters. Runs is nil for backends without a
// SQL store.
type Components struct {
	Provider ports.DistanceProvider
	Runs     ports.RunRepository

	distCache ports.DistanceCache
	closers   []func() error
}

// Close releases every handle opened by Build.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Printf("close: %v", err)
		}
	}
}

// Build selects the cache backend and distance provider described by env.
// SQLite schemas are created on the fly; Postgres expects cmd/dbtool to
// have run.
func Build(ctx context.Context, env config.Env) (_ *Components, err error) {
	c := &Components{}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	var distCache ports.DistanceCache
	var geoCache ports.GeocodeCache

	switch env.CacheBackend {
	case "sqlite":
		conn, err := openSQLiteFile(ctx, env.DBPath)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, conn.Close)
		d := cache.NewSqliteDistanceCache(conn)
		d.MaxAge = env.CacheMaxAge
		distCache = d
		geoCache = cache.NewSqliteGeocodeCache(conn)
		c.Runs = repositories.NewSQLRunRepository(conn, db.SQLite)

	case "postgres":
		if env.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for CACHE_BACKEND=postgres")
		}
		conn, err := db.OpenPostgres(env.DatabaseURL)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, conn.Close)
		d := cache.NewSQLDistanceCache(conn)
		d.MaxAge = env.CacheMaxAge
		distCache = d
		geoCache = cache.NewSQLGeocodeCache(conn)
		c.Runs = repositories.NewSQLRunRepository(conn, db.Postgres)

	case "redis":
		if env.RedisURL == "" {
			return nil, errors.New("REDIS_URL is required for CACHE_BACKEND=redis")
		}
		rdb, err := cache.NewRedisClient(ctx, env.RedisURL)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, rdb.Close)
		d := cache.NewRedisDistanceCache(rdb)
		d.TTL = env.CacheMaxAge
		distCache = d
		geoCache = cache.NewRedisGeocodeCache(rdb)

	case "none", "":

	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q", env.CacheBackend)
	}

	provider, err := newProvider(env, geoCache)
	if err != nil {
		return nil, err
	}

	if distCache != nil {
		cached, err := distance.NewCachedProvider(provider, distCache)
		if err != nil {
			return nil, err
		}
		provider = cached
	}
	c.Provider = provider
	c.distCache = distCache

	log.Printf("wired provider=%s cache=%s max_age=%s", env.Provider, env.CacheBackend, env.CacheMaxAge)
	return c, nil
}

func newProvider(env config.Env, geoCache ports.GeocodeCache) (ports.DistanceProvider, error) {
	limit := distance.WithRateLimit(env.ProviderQPS)

	switch env.Provider {
	case "google":
		if env.GoogleAPIKey == "" {
			return nil, errors.New("API_KEY_GOOGLE is required for DISTANCE_PROVIDER=google")
		}
		return distance.NewGoogleDistanceProvider(env.GoogleAPIKey, limit)
	case "ors":
		if env.ORSAPIKey == "" {
			return nil, errors.New("ORS_API_KEY is required for DISTANCE_PROVIDER=ors")
		}
		return distance.NewORSDistanceProvider(env.ORSAPIKey, geoCache, limit)
	default:
		return nil, fmt.Errorf("unknown DISTANCE_PROVIDER %q", env.Provider)
	}
}

func openSQLiteFile(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir %q: %w", dir, err)
			}
		}
	}

	conn, err := db.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := repositories.InitSchema(ctx, conn, db.SQLite); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
