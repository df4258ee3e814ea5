package ports

import (
	"context"
	"depot-analysis/internal/domain"
)

// Strategy selects how the optimizer builds its tour.
type Strategy string

const (
	// Extend the path from the depot along the cheapest available arc, then
	// improve with local search when enabled.
	StrategyPathCheapestArc Strategy = "path_cheapest_arc"
	// Exhaustive dynamic programming; only for very small instances.
	StrategyExact Strategy = "exact"
)

// Outcome of a solve call.
type RouteStatus string

const (
	StatusSolved     RouteStatus = "solved"
	StatusNoSolution RouteStatus = "no_solution"
)

// RouteRequest is the optimizer's input: a square integer cost matrix with
// domain.Unavailable for forbidden arcs.
type RouteRequest struct {
	Costs         domain.Matrix
	Vehicles      int
	Depot         int
	Strategy      Strategy
	LocalSearch   bool
	ReturnToDepot bool
}

// RouteResult is an ordered node sequence beginning at the depot (and ending
// there for closed tours) plus the total arc cost. Nodes is empty when
// Status is StatusNoSolution.
type RouteResult struct {
	Nodes  []int
	Cost   int
	Status RouteStatus
}

// Contract for the single-vehicle route optimizer.
type RouteOptimizer interface {
	// Solve returns StatusNoSolution rather than an error when no tour
	// exists; errors are reserved for malformed requests.
	Solve(ctx context.Context, req RouteRequest) (RouteResult, error)
}
