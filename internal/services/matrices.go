package services

import (
	"context"
	"depot-analysis/internal/domain"
	"depot-analysis/internal/ports"
	"errors"
	"fmt"
	"log"
)

// ErrProvider marks failures of the distance provider call itself
// (transport, auth, quota), as opposed to invalid input.
var ErrProvider = errors.New("distance provider failure")

// BuildMatrices asks the provider for every ordered pair of locations and
// assembles the distance and duration matrices in display units.
//
// A provider-level failure (network, auth, quota) aborts the build. Pairs the
// provider reports as unavailable become domain.Unavailable in both matrices
// and the build continues.
func BuildMatrices(
	ctx context.Context,
	provider ports.DistanceProvider,
	locations []string,
	opts ports.TravelOptions,
	units domain.Units,
) (distances domain.Matrix, durations domain.Matrix, err error) {
	if provider == nil {
		return nil, nil, errors.New("build matrices: provider must be non-nil")
	}
	if units.DistanceDivisor <= 0 || units.DurationDivisor <= 0 {
		return nil, nil, fmt.Errorf("build matrices: invalid unit divisors %d/%d", units.DistanceDivisor, units.DurationDivisor)
	}

	n := len(locations)
	distances = domain.NewMatrix(n)
	durations = domain.NewMatrix(n)
	if n == 0 {
		return distances, durations, nil
	}

	// Prefer a single full-matrix lookup when supported.
	if mp, ok := provider.(ports.DistanceMatrixProvider); ok {
		resp, err := mp.GetMatrix(ctx, locations, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("build matrices: %w: get matrix: %w", ErrProvider, err)
		}
		if len(resp.Elements) != n {
			return nil, nil, fmt.Errorf("build matrices: %w: provider returned %d rows for %d locations", ErrProvider, len(resp.Elements), n)
		}
		for i, row := range resp.Elements {
			if len(row) != n {
				return nil, nil, fmt.Errorf("build matrices: %w: provider row %d has %d elements, want %d", ErrProvider, i, len(row), n)
			}
			for j, r := range row {
				fill(distances, durations, i, j, r, units)
			}
		}
	} else {
		for i, origin := range locations {
			results, err := provider.GetDistances(ctx, origin, locations, opts)
			if err != nil {
				return nil, nil, fmt.Errorf("build matrices: %w: get distances from %q: %w", ErrProvider, origin, err)
			}
			for j, dest := range locations {
				r, ok := results[dest]
				if !ok && i != j {
					r = ports.DistanceResult{Status: ports.StatusNotFound}
				}
				fill(distances, durations, i, j, r, units)
			}
		}
	}

	unavailable := 0
	for i := range distances {
		for j := range distances[i] {
			if _, ok := distances.At(i, j); !ok {
				unavailable++
			}
		}
	}
	if unavailable > 0 {
		log.Printf("req_id=%s op=build_matrices unavailable_pairs=%d", requestID(ctx), unavailable)
	}

	return distances, durations, nil
}

func fill(distances, durations domain.Matrix, i, j int, r ports.DistanceResult, units domain.Units) {
	if i == j {
		distances[i][j] = 0
		durations[i][j] = 0
		return
	}
	if !r.Available() || r.DistanceMeters < 0 || r.DurationSeconds < 0 {
		distances[i][j] = domain.Unavailable
		durations[i][j] = domain.Unavailable
		return
	}
	distances[i][j] = r.DistanceMeters / units.DistanceDivisor
	durations[i][j] = r.DurationSeconds / units.DurationDivisor
}
