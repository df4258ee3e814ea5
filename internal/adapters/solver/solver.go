package solver

import (
	"context"
	"depot-analysis/internal/domain"
	"depot-analysis/internal/platform/obs"
	"depot-analysis/internal/ports"
	"errors"
	"fmt"
)

// DefaultMaxExactNodes bounds the Held-Karp table (n·2ⁿ cells).
const DefaultMaxExactNodes = 16

// Solver is an in-process single-vehicle route optimizer.
//
// The path-cheapest-arc strategy builds a first solution greedily from the
// depot and optionally improves it with 2-opt and relocate moves. When the
// greedy construction gets stuck on unavailable arcs, small instances fall
// back to the exact search before reporting no solution.
//
// Solver holds no state between calls and is safe for concurrent use.
type Solver struct {
	MaxExactNodes int
	// MaxIterations caps local search passes.
	MaxIterations int
}

func New() *Solver {
	return &Solver{MaxExactNodes: DefaultMaxExactNodes, MaxIterations: 100}
}

var _ ports.RouteOptimizer = (*Solver)(nil)

// Solve implements ports.RouteOptimizer.
func (s *Solver) Solve(ctx context.Context, req ports.RouteRequest) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "solver.Solve")(&err)

	n := len(req.Costs)
	if n == 0 {
		return ports.RouteResult{}, errors.New("solve: cost matrix is empty")
	}
	if err := req.Costs.CheckSquare(n); err != nil {
		return ports.RouteResult{}, fmt.Errorf("solve: %w", err)
	}
	if req.Vehicles != 1 {
		return ports.RouteResult{}, fmt.Errorf("solve: %d vehicles requested, only 1 is supported", req.Vehicles)
	}
	if req.Depot < 0 || req.Depot >= n {
		return ports.RouteResult{}, fmt.Errorf("solve: depot %d out of range [0,%d): %w", req.Depot, n, domain.ErrShapeMismatch)
	}

	var (
		path []int
		ok   bool
	)

	switch req.Strategy {
	case ports.StrategyPathCheapestArc, "":
		path, ok = pathCheapestArc(req.Costs, req.Depot, req.ReturnToDepot)
		if ok && req.LocalSearch {
			path, err = s.improve(ctx, req.Costs, path, req.ReturnToDepot)
			if err != nil {
				return ports.RouteResult{}, fmt.Errorf("solve: local search: %w", err)
			}
		}
		if !ok && n <= s.maxExact() {
			path, ok = heldKarp(req.Costs, req.Depot, req.ReturnToDepot)
		}
	case ports.StrategyExact:
		if n > s.maxExact() {
			return ports.RouteResult{}, fmt.Errorf("solve: exact strategy supports at most %d nodes, got %d", s.maxExact(), n)
		}
		path, ok = heldKarp(req.Costs, req.Depot, req.ReturnToDepot)
	default:
		return ports.RouteResult{}, fmt.Errorf("solve: unknown strategy %q", req.Strategy)
	}

	if !ok {
		return ports.RouteResult{Status: ports.StatusNoSolution}, nil
	}

	nodes := path
	if req.ReturnToDepot {
		nodes = append(append(make([]int, 0, len(path)+1), path...), req.Depot)
	}
	cost, _ := pathCost(req.Costs, path, req.ReturnToDepot)

	return ports.RouteResult{Nodes: nodes, Cost: cost, Status: ports.StatusSolved}, nil
}

func (s *Solver) maxExact() int {
	if s.MaxExactNodes <= 0 {
		return DefaultMaxExactNodes
	}
	return s.MaxExactNodes
}

// pathCost sums the arcs of path (which starts at the depot), plus the
// closing arc when closed. ok is false if any arc is unavailable.
func pathCost(costs domain.Matrix, path []int, closed bool) (int, bool) {
	total := 0
	for i := 0; i+1 < len(path); i++ {
		c, ok := costs.At(path[i], path[i+1])
		if !ok {
			return 0, false
		}
		total += c
	}
	if closed && len(path) > 1 {
		c, ok := costs.At(path[len(path)-1], path[0])
		if !ok {
			return 0, false
		}
		total += c
	}
	return total, true
}
