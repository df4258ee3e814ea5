package distance

import (
	"context"
	"depot-analysis/internal/domain"
	"depot-analysis/internal/platform/metrics"
	"depot-analysis/internal/platform/obs"
	"depot-analysis/internal/ports"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// ORSDistanceProvider implements DistanceMatrixProvider using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Matrix calls with retry/backoff
//
// Distance results are not cached here; wrap the provider in a
// CachedProvider for that. The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	client       *apiClient
	apiKey       string
	baseURL      string
	geocodeCache ports.GeocodeCache
}

func NewORSDistanceProvider(
	apiKey string,
	geocodeCache ports.GeocodeCache,
	opts ...Option,
) (*ORSDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	client := newAPIClient("ors", opts...)
	client.authorize = func(req *http.Request) {
		req.Header.Set("Authorization", apiKey)
	}

	return &ORSDistanceProvider{
		client:       client,
		apiKey:       apiKey,
		baseURL:      "https://api.openrouteservice.org",
		geocodeCache: geocodeCache,
	}, nil
}

// WithBaseURL points the provider at another host, e.g. an httptest server.
func (o *ORSDistanceProvider) WithBaseURL(u string) *ORSDistanceProvider {
	o.baseURL = u
	return o
}

func (o *ORSDistanceProvider) Name() string { return "ors" }

// profile maps travel modes onto ORS routing profiles.
func profile(mode string) string {
	switch mode {
	case "walking":
		return "foot-walking"
	case "bicycling":
		return "cycling-regular"
	default:
		return "driving-car"
	}
}

// Compute distances from a single origin to many destinations.
func (o *ORSDistanceProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
	opts ports.TravelOptions,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistances")(&err)

	normOrigin := normalize(origin)
	if normOrigin == "" {
		return nil, errors.New("origin must be non-empty")
	}

	destList := dedupe(destinations)
	if len(destList) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	needed := append([]string{normOrigin}, destList...)
	coords, err := o.resolve(ctx, needed, opts.Region)
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	destinationCoords := make([]domain.Coordinates, len(destList))
	for i, d := range destList {
		destinationCoords[i] = coords[d]
	}

	// Fetch a single origin->many matrix row.
	fetched, err := o.fetchMatrixRow(ctx, profile(opts.Mode), coords[normOrigin], destList, destinationCoords)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix row: %w", err)
	}

	for _, r := range fetched {
		if !r.Available() {
			metrics.PairsUnavailable.WithLabelValues("ors").Inc()
		}
	}

	return fetched, nil
}

// GetMatrix geocodes every location once and fetches the full matrix in a
// single request.
func (o *ORSDistanceProvider) GetMatrix(
	ctx context.Context,
	locations []string,
	opts ports.TravelOptions,
) (_ *ports.MatrixResponse, err error) {
	defer obs.Time(ctx, "ors.GetMatrix")(&err)

	names := make([]string, len(locations))
	for i, l := range locations {
		names[i] = normalize(l)
		if names[i] == "" {
			return nil, fmt.Errorf("location %d is empty", i)
		}
	}

	coords, err := o.resolve(ctx, dedupe(names), opts.Region)
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	points := make([]domain.Coordinates, len(names))
	for i, n := range names {
		points[i] = coords[n]
	}

	elements, err := o.fetchMatrix(ctx, profile(opts.Mode), points)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix: %w", err)
	}

	for i := range elements {
		for j := range elements[i] {
			if !elements[i][j].Available() {
				metrics.PairsUnavailable.WithLabelValues("ors").Inc()
			}
		}
	}

	return &ports.MatrixResponse{Elements: elements}, nil
}

// resolve returns coordinates for every address, consulting the geocode
// cache before calling ORS. Cache write failures are logged only.
func (o *ORSDistanceProvider) resolve(
	ctx context.Context,
	addresses []string,
	region string,
) (map[string]domain.Coordinates, error) {
	hits := make(map[string]domain.Coordinates)
	if o.geocodeCache != nil {
		keys := make([]string, len(addresses))
		for i, a := range addresses {
			keys[i] = geocodeKey(region, a)
		}
		cached, err := o.geocodeCache.GetMany(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("ORS get geocode cache: %w", err)
		}
		for i, a := range addresses {
			if c, ok := cached[keys[i]]; ok {
				hits[a] = c
			}
		}
	}

	misses := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if _, ok := hits[a]; !ok {
			misses = append(misses, a)
		}
	}

	fresh := make(map[string]domain.Coordinates)
	if len(misses) > 0 {
		var err error
		fresh, err = o.geocodeMany(ctx, misses, region)
		if err != nil {
			return nil, err
		}
	}

	if o.geocodeCache != nil && len(fresh) > 0 {
		keyed := make(map[string]domain.Coordinates, len(fresh))
		for a, c := range fresh {
			keyed[geocodeKey(region, a)] = c
		}
		if err := o.geocodeCache.PutMany(ctx, keyed); err != nil {
			log.Printf("req_id=%s geocode cache write failed: %v", obs.RequestID(ctx), err)
		}
	}

	coords := make(map[string]domain.Coordinates, len(hits)+len(fresh))
	for k, v := range hits {
		coords[k] = v
	}
	for k, v := range fresh {
		coords[k] = v
	}

	for _, a := range addresses {
		if _, ok := coords[a]; !ok {
			return nil, fmt.Errorf("missing coordinate for %q", a)
		}
	}

	return coords, nil
}

// geocodeKey scopes cached coordinates by the country boundary the
// lookup was restricted to, e.g. "BR|Recife, PE".
func geocodeKey(region, address string) string {
	return strings.ToUpper(strings.TrimSpace(region)) + "|" + address
}
