package services

import (
	"depot-analysis/internal/domain"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ConsumptionPotential estimates the market each depot serves: for every
// coverage entry, the sum of population (millions) × income per capita over
// its regions. Regions may be shared between depots.
func ConsumptionPotential(regions []domain.Region, coverage []domain.Coverage) ([]domain.PotentialResult, error) {
	byCode := make(map[string]int, len(regions))
	pop := make([]float64, len(regions))
	income := make([]float64, len(regions))
	for i, r := range regions {
		code := strings.TrimSpace(r.Code)
		if code == "" {
			return nil, fmt.Errorf("consumption potential: region at index %d has empty code", i)
		}
		if _, ok := byCode[code]; ok {
			return nil, fmt.Errorf("consumption potential: region %q: %w", code, domain.ErrDuplicateRegion)
		}
		byCode[code] = i
		pop[i] = r.PopulationMillions
		income[i] = r.IncomePerCapita
	}

	// potential[i] = pop[i] * income[i]
	potential := make([]float64, len(regions))
	copy(potential, pop)
	floats.Mul(potential, income)

	out := make([]domain.PotentialResult, 0, len(coverage))
	for _, c := range coverage {
		selected := make([]float64, 0, len(c.Regions))
		seen := make(map[string]struct{}, len(c.Regions))
		for _, code := range c.Regions {
			code = strings.TrimSpace(code)
			i, ok := byCode[code]
			if !ok {
				return nil, fmt.Errorf("consumption potential: depot %q covers %q: %w", c.Depot, code, domain.ErrUnknownRegion)
			}
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			selected = append(selected, potential[i])
		}

		out = append(out, domain.PotentialResult{
			Depot:     c.Depot,
			Regions:   c.Regions,
			Potential: floats.Sum(selected),
		})
	}

	return out, nil
}
