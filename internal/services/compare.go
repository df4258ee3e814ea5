package services

import (
	"depot-analysis/internal/domain"
	"fmt"
)

// Compare builds the side-by-side depot comparison.
//
// Every location that is not a depot yields one ComparisonRow carrying its
// distance and duration from each depot. Per-depot sums and means are taken
// over those rows. Unavailable cells are reported in Comparison.Missing and
// left out of that depot's aggregate only; the rest of the comparison stays
// usable.
//
// Shapes are validated before any matrix value is read.
func Compare(
	locations []domain.Location,
	distances domain.Matrix,
	durations domain.Matrix,
	depots []int,
) (*domain.Comparison, error) {
	if err := validateShape(locations, distances, durations, depots); err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}

	isDepot := make(map[int]struct{}, len(depots))
	depotLocs := make([]domain.Location, 0, len(depots))
	for _, d := range depots {
		isDepot[d] = struct{}{}
		depotLocs = append(depotLocs, locations[d])
	}

	if len(locations)-len(depots) == 0 {
		return nil, fmt.Errorf("compare: all %d locations are depots: %w", len(locations), domain.ErrEmptyComparisonSet)
	}

	summaries := make([]domain.DepotSummary, len(depots))
	for k, d := range depotLocs {
		summaries[k].Depot = d
	}

	rows := make([]domain.ComparisonRow, 0, len(locations)-len(depots))
	var missing []domain.MissingDistance

	for _, loc := range locations {
		if _, ok := isDepot[loc.Index]; ok {
			continue
		}

		row := domain.ComparisonRow{
			Location:  loc,
			Distances: make([]domain.Measure, len(depots)),
			Durations: make([]domain.Measure, len(depots)),
		}

		for k, d := range depots {
			if v, ok := distances.At(d, loc.Index); ok {
				row.Distances[k] = domain.Measure{Value: v, OK: true}
				summaries[k].Distance.Sum += v
				summaries[k].Distance.Count++
			} else {
				missing = append(missing, domain.MissingDistance{
					Metric:   domain.MetricDistance,
					Depot:    locations[d],
					Location: loc,
				})
			}

			if v, ok := durations.At(d, loc.Index); ok {
				row.Durations[k] = domain.Measure{Value: v, OK: true}
				summaries[k].Duration.Sum += v
				summaries[k].Duration.Count++
			} else {
				missing = append(missing, domain.MissingDistance{
					Metric:   domain.MetricDuration,
					Depot:    locations[d],
					Location: loc,
				})
			}
		}

		rows = append(rows, row)
	}

	for k := range summaries {
		summaries[k].Distance.Mean = mean(summaries[k].Distance)
		summaries[k].Duration.Mean = mean(summaries[k].Duration)
	}

	return &domain.Comparison{
		Depots:    depotLocs,
		Rows:      rows,
		Summaries: summaries,
		Missing:   missing,
	}, nil
}

func mean(a domain.Aggregate) float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.Sum) / float64(a.Count)
}

func validateShape(
	locations []domain.Location,
	distances domain.Matrix,
	durations domain.Matrix,
	depots []int,
) error {
	n := len(locations)

	for i, l := range locations {
		if l.Index != i {
			return fmt.Errorf("location %q has index %d at position %d: %w", l.Name, l.Index, i, domain.ErrShapeMismatch)
		}
	}

	if err := distances.CheckSquare(n); err != nil {
		return fmt.Errorf("distance %w", err)
	}
	if err := durations.CheckSquare(n); err != nil {
		return fmt.Errorf("duration %w", err)
	}

	seen := make(map[int]struct{}, len(depots))
	for _, d := range depots {
		if d < 0 || d >= n {
			return fmt.Errorf("depot index %d out of range [0,%d): %w", d, n, domain.ErrShapeMismatch)
		}
		if _, ok := seen[d]; ok {
			return fmt.Errorf("depot index %d listed twice: %w", d, domain.ErrShapeMismatch)
		}
		seen[d] = struct{}{}
	}

	return nil
}
