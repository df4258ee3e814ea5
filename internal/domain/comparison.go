package domain

// Measure is one depot→location cell of a ComparisonRow.
type Measure struct {
	Value int
	OK    bool
}

// ComparisonRow pairs a non-depot location with its distance and duration
// from every candidate depot. Slices follow the depot order of the request.
type ComparisonRow struct {
	Location  Location
	Distances []Measure
	Durations []Measure
}

// Aggregate is the sum and arithmetic mean of the available cells of one
// depot column. Mean is Sum/Count, or zero when Count is zero.
type Aggregate struct {
	Sum   int
	Count int
	Mean  float64
}

type DepotSummary struct {
	Depot    Location
	Distance Aggregate
	Duration Aggregate
}

// Comparison is the side-by-side result for a set of candidate depots.
// It is computed fresh per request and never mutated afterwards.
type Comparison struct {
	Depots    []Location
	Rows      []ComparisonRow
	Summaries []DepotSummary
	Missing   []MissingDistance
}

// Summary looks up the aggregates of the depot at location index.
func (c *Comparison) Summary(depot int) (DepotSummary, bool) {
	for _, s := range c.Summaries {
		if s.Depot.Index == depot {
			return s, true
		}
	}
	return DepotSummary{}, false
}
