package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env into the process environment when present.
// Variables already set in the environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetFloat parses key as a float, falling back on absence or parse failure.
func GetFloat(key string, fallback float64) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

// GetDuration parses key with time.ParseDuration ("720h", "30m"), falling
// back on absence or parse failure. Negative values fall back too.
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("config: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return d
}

// Provider credentials and backend selection.
type Env struct {
	Provider     string // google | ors
	GoogleAPIKey string
	ORSAPIKey    string
	ProviderQPS  float64
	CacheBackend string // sqlite | postgres | redis | none
	DBPath       string
	DatabaseURL  string
	RedisURL     string
	CacheMaxAge  time.Duration // 0 keeps distance entries forever
	MetricsFile  string
	Port         string
}

// FromEnv reads the service environment with the documented defaults.
func FromEnv() Env {
	return Env{
		Provider:     strings.ToLower(Get("DISTANCE_PROVIDER", "google")),
		GoogleAPIKey: Get("API_KEY_GOOGLE", ""),
		ORSAPIKey:    Get("ORS_API_KEY", ""),
		ProviderQPS:  GetFloat("PROVIDER_QPS", 10),
		CacheBackend: strings.ToLower(Get("CACHE_BACKEND", "sqlite")),
		DBPath:       Get("DB_PATH", "data/cache.db"),
		DatabaseURL:  Get("DATABASE_URL", ""),
		RedisURL:     Get("REDIS_URL", ""),
		CacheMaxAge:  GetDuration("CACHE_MAX_AGE", 30*24*time.Hour),
		MetricsFile:  Get("METRICS_TEXTFILE", ""),
		Port:         Get("PORT", "8080"),
	}
}
