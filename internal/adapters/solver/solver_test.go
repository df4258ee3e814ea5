package solver

import (
	"context"
	"depot-analysis/internal/domain"
	"depot-analysis/internal/ports"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const na = domain.Unavailable

func solve(t *testing.T, req ports.RouteRequest) ports.RouteResult {
	t.Helper()
	if req.Vehicles == 0 {
		req.Vehicles = 1
	}
	res, err := New().Solve(context.Background(), req)
	require.NoError(t, err)
	return res
}

// bruteForce enumerates every visiting order from depot.
func bruteForce(costs domain.Matrix, depot int, closed bool) (int, bool) {
	n := len(costs)
	rest := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != depot {
			rest = append(rest, i)
		}
	}

	best := math.MaxInt
	found := false
	var permute func(k int)
	permute = func(k int) {
		if k == len(rest) {
			path := append([]int{depot}, rest...)
			if c, ok := pathCost(costs, path, closed); ok && c < best {
				best, found = c, true
			}
			return
		}
		for i := k; i < len(rest); i++ {
			rest[k], rest[i] = rest[i], rest[k]
			permute(k + 1)
			rest[k], rest[i] = rest[i], rest[k]
		}
	}
	permute(0)
	return best, found
}

func assertValidTour(t *testing.T, costs domain.Matrix, res ports.RouteResult, depot int, closed bool) {
	t.Helper()
	n := len(costs)
	require.Equal(t, ports.StatusSolved, res.Status)

	want := n
	if closed {
		want++
		assert.Equal(t, depot, res.Nodes[len(res.Nodes)-1])
	}
	require.Len(t, res.Nodes, want)
	assert.Equal(t, depot, res.Nodes[0])

	seen := map[int]bool{}
	for _, v := range res.Nodes[:n] {
		assert.False(t, seen[v], "node %d visited twice", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)

	c, ok := pathCost(costs, res.Nodes[:n], closed)
	require.True(t, ok)
	assert.Equal(t, c, res.Cost)
}

func TestSolveClassicFourNodes(t *testing.T) {
	costs := domain.Matrix{
		{0, 10, 15, 20},
		{10, 0, 35, 25},
		{15, 35, 0, 30},
		{20, 25, 30, 0},
	}

	res := solve(t, ports.RouteRequest{Costs: costs, Strategy: ports.StrategyPathCheapestArc, LocalSearch: true, ReturnToDepot: true})
	assertValidTour(t, costs, res, 0, true)
	assert.Equal(t, 80, res.Cost)
	assert.Equal(t, []int{0, 1, 3, 2, 0}, res.Nodes)

	exact := solve(t, ports.RouteRequest{Costs: costs, Strategy: ports.StrategyExact, ReturnToDepot: true})
	assert.Equal(t, 80, exact.Cost)
}

func TestSolveLocalSearchEscapesExpensiveClosingArc(t *testing.T) {
	costs := domain.Matrix{
		{0, 1, 50, 2},
		{1, 0, 1, 50},
		{50, 1, 0, 1},
		{100, 50, 1, 0},
	}
	costs[0][3] = 2
	costs[3][0] = 100

	greedy := solve(t, ports.RouteRequest{Costs: costs, ReturnToDepot: true})
	assert.Equal(t, []int{0, 1, 2, 3, 0}, greedy.Nodes)
	assert.Equal(t, 103, greedy.Cost)

	improved := solve(t, ports.RouteRequest{Costs: costs, LocalSearch: true, ReturnToDepot: true})
	assertValidTour(t, costs, improved, 0, true)
	assert.Equal(t, []int{0, 3, 2, 1, 0}, improved.Nodes)
	assert.Equal(t, 5, improved.Cost)
}

func TestSolveNonZeroDepot(t *testing.T) {
	costs := domain.Matrix{
		{0, 10, 15, 20},
		{10, 0, 35, 25},
		{15, 35, 0, 30},
		{20, 25, 30, 0},
	}

	res := solve(t, ports.RouteRequest{Costs: costs, Depot: 2, LocalSearch: true, ReturnToDepot: true})
	assertValidTour(t, costs, res, 2, true)
	assert.Equal(t, 80, res.Cost)
}

func TestSolveExactMatchesBruteForce(t *testing.T) {
	costs := domain.Matrix{
		{0, 29, 20, 21, 16, 31, 100},
		{29, 0, 15, 29, 28, 40, 72},
		{20, 15, 0, 15, 14, 25, 81},
		{21, 29, 15, 0, 4, 12, 92},
		{16, 28, 14, 4, 0, 16, 94},
		{31, 40, 25, 12, 16, 0, 95},
		{100, 72, 81, 92, 94, 95, 0},
	}
	// Make it asymmetric.
	costs[6][0] = 7
	costs[2][5] = na

	for _, closed := range []bool{true, false} {
		for depot := 0; depot < len(costs); depot++ {
			want, ok := bruteForce(costs, depot, closed)
			require.True(t, ok)

			exact := solve(t, ports.RouteRequest{Costs: costs, Depot: depot, Strategy: ports.StrategyExact, ReturnToDepot: closed})
			assertValidTour(t, costs, exact, depot, closed)
			assert.Equal(t, want, exact.Cost, "depot=%d closed=%v", depot, closed)

			heur := solve(t, ports.RouteRequest{Costs: costs, Depot: depot, LocalSearch: true, ReturnToDepot: closed})
			assertValidTour(t, costs, heur, depot, closed)
			assert.GreaterOrEqual(t, heur.Cost, want)
		}
	}
}

func TestSolveGreedyDeadEndFallsBackToExact(t *testing.T) {
	costs := domain.Matrix{
		{0, 1, 5},
		{1, 0, na},
		{na, 1, 0},
	}

	res := solve(t, ports.RouteRequest{Costs: costs, ReturnToDepot: true})
	assertValidTour(t, costs, res, 0, true)
	assert.Equal(t, []int{0, 2, 1, 0}, res.Nodes)
	assert.Equal(t, 7, res.Cost)
}

func TestSolveNoSolution(t *testing.T) {
	unreachable := domain.Matrix{
		{0, 1, 2, na},
		{1, 0, 2, na},
		{2, 2, 0, na},
		{1, 1, 1, 0},
	}

	for _, strategy := range []ports.Strategy{ports.StrategyPathCheapestArc, ports.StrategyExact} {
		res := solve(t, ports.RouteRequest{Costs: unreachable, Strategy: strategy, LocalSearch: true, ReturnToDepot: true})
		assert.Equal(t, ports.StatusNoSolution, res.Status)
		assert.Empty(t, res.Nodes)
		assert.Zero(t, res.Cost)
	}

	noWayBack := domain.Matrix{
		{0, 1},
		{na, 0},
	}
	res := solve(t, ports.RouteRequest{Costs: noWayBack, ReturnToDepot: true})
	assert.Equal(t, ports.StatusNoSolution, res.Status)

	open := solve(t, ports.RouteRequest{Costs: noWayBack, ReturnToDepot: false})
	assert.Equal(t, ports.StatusSolved, open.Status)
	assert.Equal(t, []int{0, 1}, open.Nodes)
	assert.Equal(t, 1, open.Cost)
}

func TestSolveSingleNode(t *testing.T) {
	res := solve(t, ports.RouteRequest{Costs: domain.Matrix{{0}}, ReturnToDepot: true})
	assert.Equal(t, ports.StatusSolved, res.Status)
	assert.Equal(t, []int{0, 0}, res.Nodes)
	assert.Zero(t, res.Cost)
}

func TestSolveRejectsMalformedRequests(t *testing.T) {
	ok := domain.Matrix{{0, 1}, {1, 0}}

	tests := []struct {
		name string
		req  ports.RouteRequest
	}{
		{"empty", ports.RouteRequest{Costs: domain.Matrix{}, Vehicles: 1}},
		{"ragged", ports.RouteRequest{Costs: domain.Matrix{{0, 1}, {1}}, Vehicles: 1}},
		{"two vehicles", ports.RouteRequest{Costs: ok, Vehicles: 2}},
		{"depot out of range", ports.RouteRequest{Costs: ok, Vehicles: 1, Depot: 2}},
		{"unknown strategy", ports.RouteRequest{Costs: ok, Vehicles: 1, Strategy: "genetic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Solve(context.Background(), tt.req)
			require.Error(t, err)
		})
	}

	s := &Solver{MaxExactNodes: 2}
	_, err := s.Solve(context.Background(), ports.RouteRequest{Costs: domain.NewMatrix(3), Vehicles: 1, Strategy: ports.StrategyExact})
	require.Error(t, err)
}

func TestSolveHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	costs := domain.Matrix{
		{0, 10, 15, 20},
		{10, 0, 35, 25},
		{15, 35, 0, 30},
		{20, 25, 30, 0},
	}
	_, err := New().Solve(ctx, ports.RouteRequest{Costs: costs, Vehicles: 1, LocalSearch: true, ReturnToDepot: true})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMoves(t *testing.T) {
	assert.Equal(t, []int{0, 3, 2, 1, 4}, twoOptSwap([]int{0, 1, 2, 3, 4}, 1, 3))
	assert.Equal(t, []int{0, 2, 3, 1, 4}, relocate([]int{0, 1, 2, 3, 4}, 1, 3))
	assert.Equal(t, []int{0, 3, 1, 2, 4}, relocate([]int{0, 1, 2, 3, 4}, 3, 1))
}
