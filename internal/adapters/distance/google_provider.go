package distance

import (
	"context"
	"depot-analysis/internal/platform/metrics"
	"depot-analysis/internal/platform/obs"
	"depot-analysis/internal/ports"
	"errors"
	"fmt"
)

// maxGoogleElements is the per-request destination limit of the
// Distance Matrix API for a single origin.
const maxGoogleElements = 25

// GoogleDistanceProvider implements DistanceMatrixProvider on top of the
// Google Distance Matrix API.
//
// A top-level status other than OK fails the call. Element statuses other
// than OK are passed through, so callers see those pairs as unavailable.
//
// The provider is safe for concurrent use.
type GoogleDistanceProvider struct {
	client  *apiClient
	apiKey  string
	baseURL string
}

func NewGoogleDistanceProvider(apiKey string, opts ...Option) (*GoogleDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google api key is empty")
	}

	return &GoogleDistanceProvider{
		client:  newAPIClient("google", opts...),
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com",
	}, nil
}

// WithBaseURL points the provider at another host, e.g. an httptest server.
func (g *GoogleDistanceProvider) WithBaseURL(u string) *GoogleDistanceProvider {
	g.baseURL = u
	return g
}

func (g *GoogleDistanceProvider) Name() string { return "google" }

// GetDistances returns one result per distinct destination.
func (g *GoogleDistanceProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
	opts ports.TravelOptions,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "google.GetDistances")(&err)

	normOrigin := normalize(origin)
	if normOrigin == "" {
		return nil, errors.New("origin must be non-empty")
	}

	destList := dedupe(destinations)
	out := make(map[string]ports.DistanceResult, len(destList))

	for start := 0; start < len(destList); start += maxGoogleElements {
		end := min(start+maxGoogleElements, len(destList))
		chunk := destList[start:end]

		row, err := g.fetchRow(ctx, normOrigin, chunk, opts)
		if err != nil {
			return nil, fmt.Errorf("google row %q: %w", normOrigin, err)
		}
		for i, d := range chunk {
			if !row[i].Available() {
				metrics.PairsUnavailable.WithLabelValues("google").Inc()
			}
			out[d] = row[i]
		}
	}

	return out, nil
}

// GetMatrix requests the matrix one origin row at a time. The diagonal is
// filled locally with zero-cost OK results.
func (g *GoogleDistanceProvider) GetMatrix(
	ctx context.Context,
	locations []string,
	opts ports.TravelOptions,
) (_ *ports.MatrixResponse, err error) {
	defer obs.Time(ctx, "google.GetMatrix")(&err)

	names := make([]string, len(locations))
	for i, l := range locations {
		names[i] = normalize(l)
		if names[i] == "" {
			return nil, fmt.Errorf("location %d is empty", i)
		}
	}

	elements := make([][]ports.DistanceResult, len(names))
	for i, origin := range names {
		row, err := g.GetDistances(ctx, origin, names, opts)
		if err != nil {
			return nil, err
		}

		elements[i] = make([]ports.DistanceResult, len(names))
		for j, dest := range names {
			if i == j {
				elements[i][j] = ports.DistanceResult{Status: ports.StatusOK}
				continue
			}
			r, ok := row[dest]
			if !ok {
				r = ports.DistanceResult{Status: ports.StatusNotFound}
			}
			elements[i][j] = r
		}
	}

	return &ports.MatrixResponse{Elements: elements}, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
