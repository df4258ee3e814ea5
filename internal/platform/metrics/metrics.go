package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for this service.
	Registry = prometheus.NewRegistry()

	// ProviderRequests counts distance provider API calls by provider and outcome.
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "distance_provider_requests_total", Help: "Distance provider API requests."},
		[]string{"provider", "outcome"},
	)
	// PairsUnavailable counts origin/destination pairs the provider could not resolve.
	PairsUnavailable = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "distance_pairs_unavailable_total", Help: "Pairs reported unavailable by the provider."},
		[]string{"provider"},
	)
	// CacheLookups counts distance cache lookups by upstream provider and
	// result (hit/miss).
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "distance_cache_lookups_total", Help: "Distance cache lookups."},
		[]string{"provider", "result"},
	)
	// SolverRuns counts optimizer runs by strategy and status.
	SolverRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_solver_runs_total", Help: "Route optimizer runs."},
		[]string{"strategy", "status"},
	)
	// MissingDistances counts depot/location pairs excluded from comparisons.
	MissingDistances = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "comparison_missing_distances_total", Help: "Pairs excluded from depot aggregates."},
	)
	// OpDuration records obs.Time durations in seconds.
	OpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "operation_duration_seconds", Help: "Timed operation duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"op", "outcome"},
	)
	// HTTPRequests counts API requests by method, route and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "route", "status"},
	)
	// HTTPDuration records API request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
)

var regOnce sync.Once

// Register adds every collector to Registry. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(
			ProviderRequests,
			PairsUnavailable,
			CacheLookups,
			SolverRuns,
			MissingDistances,
			OpDuration,
			HTTPRequests,
			HTTPDuration,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}

// WriteTextfile dumps the registry in the node-exporter textfile format,
// used by one-shot CLI runs that have no scrape endpoint.
func WriteTextfile(path string) error {
	Register()
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("write metrics textfile %q: %w", path, err)
	}
	return nil
}
