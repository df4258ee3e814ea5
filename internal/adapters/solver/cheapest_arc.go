package solver

import (
	"depot-analysis/internal/domain"
	"math"
)

// pathCheapestArc extends the path from the depot by the cheapest available
// arc to an unvisited node until every node is visited.
// Ties go to the lower node index so results are deterministic.
func pathCheapestArc(costs domain.Matrix, depot int, closed bool) ([]int, bool) {
	n := len(costs)
	visited := make([]bool, n)
	visited[depot] = true

	path := make([]int, 0, n)
	path = append(path, depot)
	current := depot

	for len(path) < n {
		best := -1
		bestCost := math.MaxInt
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			c, ok := costs.At(current, j)
			if !ok {
				continue
			}
			if c < bestCost {
				bestCost = c
				best = j
			}
		}
		if best < 0 {
			return nil, false
		}

		visited[best] = true
		path = append(path, best)
		current = best
	}

	if _, ok := pathCost(costs, path, closed); !ok {
		return nil, false
	}
	return path, true
}
