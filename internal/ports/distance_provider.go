package ports

import "context"

// Element statuses reported per origin/destination pair.
const (
	StatusOK          = "OK"
	StatusNotFound    = "NOT_FOUND"
	StatusZeroResults = "ZERO_RESULTS"
)

// Distance and travel duration between two locations.
// Status is StatusOK when the pair resolved; any other value marks the pair
// unavailable and the metric fields must be ignored.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
	Status          string
}

func (r DistanceResult) Available() bool { return r.Status == StatusOK }

// TravelOptions are forwarded verbatim to the mapping API.
type TravelOptions struct {
	Mode   string // e.g. "driving"
	Units  string // e.g. "metric"
	Region string // region/country hint, e.g. "br"
}

// Contract for retrieving travel distance and duration between locations.
type DistanceProvider interface {
	// Return distances from one origin to many destinations. Destinations the
	// provider could not resolve are either absent from the map or carry a
	// non-OK status; an error means the call itself failed.
	GetDistances(ctx context.Context, origin string, destinations []string, opts TravelOptions) (map[string]DistanceResult, error)
}
