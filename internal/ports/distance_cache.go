package ports

import (
	"context"
	"depot-analysis/internal/domain"
)

// Persistent cache for origin->destination results. Entries are scoped by
// profile, "<provider>:<mode>:<region>", since the same pair differs
// between upstreams, modes and regions.
// Implementations only store available results.
type DistanceCache interface {
	GetMany(ctx context.Context, profile string, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, profile string, origin string, results map[string]DistanceResult) error
}

// Persistent cache mapping addresses to coordinates. Callers that restrict
// geocoding to a country fold it into the address key.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
