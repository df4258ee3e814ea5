package services

import (
	"context"
	"depot-analysis/internal/domain"
	"depot-analysis/internal/platform/metrics"
	"depot-analysis/internal/platform/obs"
	"depot-analysis/internal/ports"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
)

type AnalysisRequest struct {
	Locations []string
	Depots    []string
	Travel    ports.TravelOptions
	Units     domain.Units
	Route     RouteOptions
	// SkipRoutes disables tour construction (comparison only).
	SkipRoutes bool
}

// AnalyzeDepots runs the whole depot comparison for one scenario:
// matrices from the provider, the comparison, then one tour per depot.
// Steps run sequentially.
func AnalyzeDepots(
	ctx context.Context,
	req AnalysisRequest,
	provider ports.DistanceProvider,
	optimizer ports.RouteOptimizer,
) (_ *domain.Analysis, err error) {
	// Run ids key stored runs, so they are always minted here. A caller's
	// request id only correlates log lines.
	runID := uuid.NewString()
	if obs.RequestID(ctx) == "" {
		ctx = obs.WithRequestID(ctx, runID)
	}
	defer obs.Time(ctx, "analyze_depots")(&err)

	locations, err := domain.NewLocations(req.Locations)
	if err != nil {
		return nil, fmt.Errorf("analyze depots: %w", err)
	}

	depots := make([]int, 0, len(req.Depots))
	for _, name := range req.Depots {
		idx, err := domain.IndexOf(locations, name)
		if err != nil {
			return nil, fmt.Errorf("analyze depots: depot: %w", err)
		}
		depots = append(depots, idx)
	}

	if !req.SkipRoutes && optimizer == nil {
		return nil, errors.New("analyze depots: optimizer must be non-nil unless routes are skipped")
	}

	units := req.Units
	if units.DistanceDivisor == 0 && units.DurationDivisor == 0 {
		units = domain.DefaultUnits
	}

	dist, dur, err := BuildMatrices(ctx, provider, domain.Names(locations), req.Travel, units)
	if err != nil {
		return nil, fmt.Errorf("analyze depots: %w", err)
	}

	cmp, err := Compare(locations, dist, dur, depots)
	if err != nil {
		return nil, fmt.Errorf("analyze depots: %w", err)
	}
	for _, m := range cmp.Missing {
		metrics.MissingDistances.Inc()
		log.Printf("req_id=%s op=compare warning=%q", runID, m.Error())
	}

	analysis := &domain.Analysis{
		RunID:      runID,
		Locations:  locations,
		Distances:  dist,
		Durations:  dur,
		Comparison: cmp,
	}

	if req.SkipRoutes {
		return analysis, nil
	}

	for _, d := range depots {
		tour, err := ConstructRoute(ctx, optimizer, locations, dist, d, req.Route)
		if err != nil {
			return nil, fmt.Errorf("analyze depots: %w", err)
		}
		analysis.Tours = append(analysis.Tours, *tour)
	}

	return analysis, nil
}

func requestID(ctx context.Context) string { return obs.RequestID(ctx) }
