package services

import (
	"depot-analysis/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const na = domain.Unavailable

func mustLocations(t *testing.T, names ...string) []domain.Location {
	t.Helper()
	locs, err := domain.NewLocations(names)
	require.NoError(t, err)
	return locs
}

func TestCompareTwoDepots(t *testing.T) {
	locs := mustLocations(t, "A", "B", "C", "D")
	dist := domain.Matrix{
		{0, 10, 5, 7},
		{10, 0, 6, 4},
		{5, 6, 0, 3},
		{7, 4, 3, 0},
	}
	dur := domain.Matrix{
		{0, 20, 10, 14},
		{20, 0, 12, 8},
		{10, 12, 0, 6},
		{14, 8, 6, 0},
	}

	cmp, err := Compare(locs, dist, dur, []int{0, 1})
	require.NoError(t, err)

	require.Len(t, cmp.Rows, 2)
	assert.Equal(t, "C", cmp.Rows[0].Location.Name)
	assert.Equal(t, []domain.Measure{{Value: 5, OK: true}, {Value: 6, OK: true}}, cmp.Rows[0].Distances)
	assert.Equal(t, "D", cmp.Rows[1].Location.Name)
	assert.Equal(t, []domain.Measure{{Value: 7, OK: true}, {Value: 4, OK: true}}, cmp.Rows[1].Distances)

	a, ok := cmp.Summary(0)
	require.True(t, ok)
	assert.Equal(t, domain.Aggregate{Sum: 12, Count: 2, Mean: 6.0}, a.Distance)
	assert.Equal(t, domain.Aggregate{Sum: 24, Count: 2, Mean: 12.0}, a.Duration)

	b, ok := cmp.Summary(1)
	require.True(t, ok)
	assert.Equal(t, domain.Aggregate{Sum: 10, Count: 2, Mean: 5.0}, b.Distance)
	assert.Equal(t, domain.Aggregate{Sum: 20, Count: 2, Mean: 10.0}, b.Duration)

	assert.Empty(t, cmp.Missing)

	_, ok = cmp.Summary(2)
	assert.False(t, ok)
}

func TestCompareExcludesDepotRows(t *testing.T) {
	locs := mustLocations(t, "A", "B", "C", "D", "E")
	m := domain.Matrix{
		{0, 1, 2, 3, 4},
		{1, 0, 5, 6, 7},
		{2, 5, 0, 8, 9},
		{3, 6, 8, 0, 1},
		{4, 7, 9, 1, 0},
	}

	for _, depots := range [][]int{{}, {0}, {4}, {1, 3}, {0, 2, 4}, {3, 2, 1, 0}} {
		cmp, err := Compare(locs, m, m, depots)
		require.NoError(t, err)

		assert.Len(t, cmp.Rows, len(locs)-len(depots))
		for _, row := range cmp.Rows {
			for _, d := range depots {
				assert.NotEqual(t, d, row.Location.Index, "depot %d leaked into rows", d)
			}
		}
		assert.Len(t, cmp.Summaries, len(depots))
	}
}

func TestCompareSumAndMeanAgree(t *testing.T) {
	locs := mustLocations(t, "A", "B", "C", "D", "E", "F")
	dist := domain.Matrix{
		{0, 11, 23, 35, 47, 59},
		{11, 0, 13, 17, 19, 29},
		{23, 13, 0, 31, 37, 41},
		{35, 17, 31, 0, 43, 53},
		{47, 19, 37, 43, 0, 61},
		{59, 29, 41, 53, 61, 0},
	}

	cmp, err := Compare(locs, dist, dist, []int{1, 5})
	require.NoError(t, err)

	for k, s := range cmp.Summaries {
		sum := 0
		for _, row := range cmp.Rows {
			sum += row.Distances[k].Value
		}
		assert.Equal(t, sum, s.Distance.Sum)
		assert.Equal(t, float64(s.Distance.Sum)/float64(s.Distance.Count), s.Distance.Mean)
	}
}

func TestCompareShapeMismatch(t *testing.T) {
	square4 := domain.Matrix{
		{0, 1, 2, 3},
		{1, 0, 2, 3},
		{1, 2, 0, 3},
		{1, 2, 3, 0},
	}

	tests := []struct {
		name   string
		locs   []string
		dist   domain.Matrix
		dur    domain.Matrix
		depots []int
	}{
		{"three locations four by four", []string{"A", "B", "C"}, square4, square4, []int{0}},
		{"durations smaller", []string{"A", "B", "C", "D"}, square4, square4[:3], []int{0}},
		{"ragged row", []string{"A", "B", "C", "D"}, square4, domain.Matrix{{0, 1, 2, 3}, {1, 0}, {1, 2, 0, 3}, {1, 2, 3, 0}}, []int{0}},
		{"depot out of range", []string{"A", "B", "C", "D"}, square4, square4, []int{4}},
		{"negative depot", []string{"A", "B", "C", "D"}, square4, square4, []int{-1}},
		{"duplicate depot", []string{"A", "B", "C", "D"}, square4, square4, []int{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compare(mustLocations(t, tt.locs...), tt.dist, tt.dur, tt.depots)
			require.ErrorIs(t, err, domain.ErrShapeMismatch)
		})
	}
}

func TestCompareShapeCheckedBeforeValues(t *testing.T) {
	// Nil rows would panic if any value were read.
	dist := domain.Matrix{nil, nil, nil, nil}

	_, err := Compare(mustLocations(t, "A", "B", "C"), dist, dist, []int{0})
	require.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestCompareAllDepots(t *testing.T) {
	locs := mustLocations(t, "A", "B")
	m := domain.Matrix{{0, 3}, {3, 0}}

	_, err := Compare(locs, m, m, []int{0, 1})
	require.ErrorIs(t, err, domain.ErrEmptyComparisonSet)

	_, err = Compare(nil, domain.Matrix{}, domain.Matrix{}, nil)
	require.ErrorIs(t, err, domain.ErrEmptyComparisonSet)
}

func TestCompareMissingDistanceExcludedFromOneDepot(t *testing.T) {
	locs := mustLocations(t, "A", "B", "C", "D")
	dist := domain.Matrix{
		{0, 10, na, 7},
		{10, 0, 6, 4},
		{5, 6, 0, 3},
		{7, 4, 3, 0},
	}
	dur := domain.Matrix{
		{0, 20, 10, 14},
		{20, 0, 12, 8},
		{10, 12, 0, 6},
		{14, 8, 6, 0},
	}

	cmp, err := Compare(locs, dist, dur, []int{0, 1})
	require.NoError(t, err)

	require.Len(t, cmp.Rows, 2)
	c := cmp.Rows[0]
	assert.Equal(t, "C", c.Location.Name)
	assert.False(t, c.Distances[0].OK)
	assert.Equal(t, domain.Measure{Value: 6, OK: true}, c.Distances[1])

	a, _ := cmp.Summary(0)
	assert.Equal(t, domain.Aggregate{Sum: 7, Count: 1, Mean: 7.0}, a.Distance)
	assert.Equal(t, domain.Aggregate{Sum: 24, Count: 2, Mean: 12.0}, a.Duration)

	b, _ := cmp.Summary(1)
	assert.Equal(t, domain.Aggregate{Sum: 10, Count: 2, Mean: 5.0}, b.Distance)

	require.Len(t, cmp.Missing, 1)
	assert.Equal(t, domain.MetricDistance, cmp.Missing[0].Metric)
	assert.Equal(t, "A", cmp.Missing[0].Depot.Name)
	assert.Equal(t, "C", cmp.Missing[0].Location.Name)
	assert.EqualError(t, cmp.Missing[0], `missing distance from "A" to "C"`)
}

func TestCompareDepotWithEveryPairMissing(t *testing.T) {
	locs := mustLocations(t, "A", "B", "C")
	dist := domain.Matrix{
		{0, na, na},
		{na, 0, 1},
		{na, 1, 0},
	}

	cmp, err := Compare(locs, dist, dist, []int{0})
	require.NoError(t, err)

	a, _ := cmp.Summary(0)
	assert.Equal(t, domain.Aggregate{}, a.Distance)
	assert.Len(t, cmp.Missing, 4)
}

func TestCompareIgnoresUnrelatedMissingCells(t *testing.T) {
	locs := mustLocations(t, "A", "B", "C")
	dist := domain.Matrix{
		{0, 2, 3},
		{na, 0, na},
		{na, na, 0},
	}

	cmp, err := Compare(locs, dist, dist, []int{0})
	require.NoError(t, err)
	assert.Empty(t, cmp.Missing)
}
