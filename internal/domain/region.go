package domain

// Region carries the demographic figures used for the consumption
// potential estimate.
type Region struct {
	Code               string
	PopulationMillions float64
	IncomePerCapita    float64
}

// Potential is population (millions) times income per capita.
func (r Region) Potential() float64 {
	return r.PopulationMillions * r.IncomePerCapita
}

// Coverage lists the regions a depot is expected to serve. Regions may be
// covered by more than one depot.
type Coverage struct {
	Depot   string
	Regions []string
}

type PotentialResult struct {
	Depot     string
	Regions   []string
	Potential float64
}
