package solver

import (
	"depot-analysis/internal/domain"
	"math"
)

const inf = math.MaxInt / 2

// heldKarp finds the minimum-cost Hamiltonian path from depot over all
// nodes (closed back to depot when closed is true) by dynamic programming
// over subsets: dp[mask][j] is the cheapest way to leave depot, visit
// exactly mask and stop at j.
//
// O(n²·2ⁿ) time, O(n·2ⁿ) memory.
func heldKarp(costs domain.Matrix, depot int, closed bool) ([]int, bool) {
	n := len(costs)
	if n == 1 {
		return []int{depot}, true
	}

	full := 1<<n - 1
	dp := make([][]int, 1<<n)
	parent := make([][]int, 1<<n)
	for mask := range dp {
		dp[mask] = make([]int, n)
		parent[mask] = make([]int, n)
		for j := range dp[mask] {
			dp[mask][j] = inf
			parent[mask][j] = -1
		}
	}

	start := 1 << depot
	dp[start][depot] = 0

	for mask := 0; mask <= full; mask++ {
		if mask&start == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if mask&(1<<j) == 0 || j == depot {
				continue
			}
			prev := mask ^ (1 << j)
			for k := 0; k < n; k++ {
				if prev&(1<<k) == 0 || dp[prev][k] >= inf {
					continue
				}
				c, ok := costs.At(k, j)
				if !ok {
					continue
				}
				if cand := dp[prev][k] + c; cand < dp[mask][j] {
					dp[mask][j] = cand
					parent[mask][j] = k
				}
			}
		}
	}

	best := inf
	last := -1
	for j := 0; j < n; j++ {
		if j == depot || dp[full][j] >= inf {
			continue
		}
		total := dp[full][j]
		if closed {
			c, ok := costs.At(j, depot)
			if !ok {
				continue
			}
			total += c
		}
		if total < best {
			best = total
			last = j
		}
	}
	if last < 0 {
		return nil, false
	}

	path := make([]int, n)
	mask := full
	j := last
	for pos := n - 1; pos >= 1; pos-- {
		path[pos] = j
		p := parent[mask][j]
		mask ^= 1 << j
		j = p
	}
	path[0] = depot

	return path, true
}
