package solver

import (
	"context"
	"depot-analysis/internal/domain"
)

// improve applies 2-opt and relocate moves until neither lowers the cost.
// Moves are evaluated on the full directed cost so asymmetric matrices and
// unavailable arcs are handled. The depot stays at position 0.
func (s *Solver) improve(ctx context.Context, costs domain.Matrix, path []int, closed bool) ([]int, error) {
	best := append([]int(nil), path...)
	bestCost, ok := pathCost(costs, best, closed)
	if !ok {
		return path, nil
	}

	iterations := s.MaxIterations
	if iterations <= 0 {
		iterations = 1
	}

	n := len(best)
	for it := 0; it < iterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		improved := false

		for i := 1; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				cand := twoOptSwap(best, i, k)
				if c, ok := pathCost(costs, cand, closed); ok && c < bestCost {
					best, bestCost = cand, c
					improved = true
				}
			}
		}

		for i := 1; i < n; i++ {
			for j := 1; j < n; j++ {
				if i == j {
					continue
				}
				cand := relocate(best, i, j)
				if c, ok := pathCost(costs, cand, closed); ok && c < bestCost {
					best, bestCost = cand, c
					improved = true
				}
			}
		}

		if !improved {
			break
		}
	}

	return best, nil
}

// twoOptSwap reverses ord[i..k].
func twoOptSwap(ord []int, i, k int) []int {
	out := make([]int, len(ord))
	copy(out, ord[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = ord[j]
		pos++
	}
	copy(out[pos:], ord[k+1:])
	return out
}

// relocate moves the node at position i so it ends up at position j.
func relocate(ord []int, i, j int) []int {
	node := ord[i]
	rest := make([]int, 0, len(ord)-1)
	rest = append(rest, ord[:i]...)
	rest = append(rest, ord[i+1:]...)

	out := make([]int, 0, len(ord))
	out = append(out, rest[:j]...)
	out = append(out, node)
	out = append(out, rest[j:]...)
	return out
}
