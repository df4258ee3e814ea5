package services

import (
	"context"
	"depot-analysis/internal/domain"
	"depot-analysis/internal/platform/metrics"
	"depot-analysis/internal/ports"
	"errors"
	"fmt"
)

// RouteOptions tune the optimizer request. The zero value asks for the
// cheapest-arc heuristic without local search and an open path; use
// DefaultRouteOptions for the usual closed tour.
type RouteOptions struct {
	Strategy      ports.Strategy
	LocalSearch   bool
	ReturnToDepot bool
}

func DefaultRouteOptions() RouteOptions {
	return RouteOptions{
		Strategy:      ports.StrategyPathCheapestArc,
		LocalSearch:   true,
		ReturnToDepot: true,
	}
}

// ConstructRoute requests a single-vehicle tour from depot over every other
// location and translates the optimizer's node indices back into locations.
//
// No optimization happens here. When the optimizer finds no tour the result
// has Found == false and the error is nil.
func ConstructRoute(
	ctx context.Context,
	optimizer ports.RouteOptimizer,
	locations []domain.Location,
	costs domain.Matrix,
	depot int,
	opts RouteOptions,
) (*domain.Tour, error) {
	if optimizer == nil {
		return nil, errors.New("construct route: optimizer must be non-nil")
	}
	if err := costs.CheckSquare(len(locations)); err != nil {
		return nil, fmt.Errorf("construct route: cost %w", err)
	}
	if depot < 0 || depot >= len(locations) {
		return nil, fmt.Errorf("construct route: depot index %d out of range [0,%d): %w", depot, len(locations), domain.ErrShapeMismatch)
	}

	strategy := opts.Strategy
	if strategy == "" {
		strategy = ports.StrategyPathCheapestArc
	}

	res, err := optimizer.Solve(ctx, ports.RouteRequest{
		Costs:         costs,
		Vehicles:      1,
		Depot:         depot,
		Strategy:      strategy,
		LocalSearch:   opts.LocalSearch,
		ReturnToDepot: opts.ReturnToDepot,
	})
	if err != nil {
		return nil, fmt.Errorf("construct route: from %q: %w", locations[depot].Name, err)
	}
	metrics.SolverRuns.WithLabelValues(string(strategy), string(res.Status)).Inc()

	tour := &domain.Tour{
		Depot:  locations[depot],
		Closed: opts.ReturnToDepot,
	}
	if res.Status == ports.StatusNoSolution {
		return tour, nil
	}
	if res.Status != ports.StatusSolved {
		return nil, fmt.Errorf("construct route: unknown optimizer status %q", res.Status)
	}

	stops := make([]domain.Location, 0, len(res.Nodes))
	for _, node := range res.Nodes {
		if node < 0 || node >= len(locations) {
			return nil, fmt.Errorf("construct route: optimizer returned node %d outside [0,%d)", node, len(locations))
		}
		stops = append(stops, locations[node])
	}
	if len(stops) == 0 || stops[0].Index != depot {
		return nil, fmt.Errorf("construct route: optimizer route does not start at depot %q", locations[depot].Name)
	}

	tour.Stops = stops
	tour.Cost = res.Cost
	tour.Found = true
	return tour, nil
}
