package dto

import (
	"depot-analysis/internal/domain"
	"depot-analysis/internal/ports"
	"fmt"
)

// ToMatrix converts a JSON matrix with null cells into a domain.Matrix.
// Negative values are rejected; null becomes domain.Unavailable.
func ToMatrix(cells [][]*int) (domain.Matrix, error) {
	m := make(domain.Matrix, len(cells))
	for i, row := range cells {
		m[i] = make([]int, len(row))
		for j, c := range row {
			switch {
			case c == nil:
				m[i][j] = domain.Unavailable
			case *c < 0:
				return nil, fmt.Errorf("cell [%d][%d] is negative", i, j)
			default:
				m[i][j] = *c
			}
		}
	}
	return m, nil
}

func measures(ms []domain.Measure) []*int {
	out := make([]*int, len(ms))
	for i, m := range ms {
		if m.OK {
			v := m.Value
			out[i] = &v
		}
	}
	return out
}

func aggregate(a domain.Aggregate) AggregateResponse {
	return AggregateResponse{Sum: a.Sum, Count: a.Count, Mean: a.Mean}
}

func Summaries(in []domain.DepotSummary) []SummaryResponse {
	out := make([]SummaryResponse, len(in))
	for i, s := range in {
		out[i] = SummaryResponse{
			Depot:    s.Depot.Name,
			Distance: aggregate(s.Distance),
			Duration: aggregate(s.Duration),
		}
	}
	return out
}

func FromComparison(cmp *domain.Comparison) ComparisonResponse {
	res := ComparisonResponse{
		Depots:    domain.Names(cmp.Depots),
		Rows:      make([]RowResponse, len(cmp.Rows)),
		Summaries: Summaries(cmp.Summaries),
		Missing:   make([]MissingResponse, len(cmp.Missing)),
	}
	for i, r := range cmp.Rows {
		res.Rows[i] = RowResponse{
			Location:  r.Location.Name,
			Distances: measures(r.Distances),
			Durations: measures(r.Durations),
		}
	}
	for i, m := range cmp.Missing {
		res.Missing[i] = MissingResponse{
			Metric:   string(m.Metric),
			Depot:    m.Depot.Name,
			Location: m.Location.Name,
		}
	}
	return res
}

func FromAnalysis(a *domain.Analysis, units domain.Units) ComparisonResponse {
	res := FromComparison(a.Comparison)
	res.RunID = a.RunID
	res.Units = &UnitsResponse{Distance: units.DistanceLabel, Duration: units.DurationLabel}
	for _, t := range a.Tours {
		res.Tours = append(res.Tours, FromTour(t))
	}
	return res
}

func FromTour(t domain.Tour) TourResponse {
	res := TourResponse{Depot: t.Depot.Name, Found: t.Found, Closed: t.Closed}
	if !t.Found {
		return res
	}
	res.Stops = domain.Names(t.Stops)
	cost := t.Cost
	res.Cost = &cost
	return res
}

func FromRun(r ports.RunRecord) RunResponse {
	return RunResponse{
		RunID:     r.RunID,
		CreatedAt: r.CreatedAt,
		Summaries: Summaries(r.Summaries),
		Missing:   r.Missing,
	}
}
