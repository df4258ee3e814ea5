package config

import (
	"depot-analysis/internal/domain"
	"depot-analysis/internal/ports"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is the on-disk description of one depot analysis: the cities,
// the candidate depots, how to query the provider and the regional figures
// for the consumption potential estimate.
type Scenario struct {
	Locations     []string       `yaml:"locations"`
	Depots        []string       `yaml:"depots"`
	Mode          string         `yaml:"mode"`
	Units         string         `yaml:"units"`
	Region        string         `yaml:"region"`
	DistanceUnit  string         `yaml:"distance_unit"`
	DurationUnit  string         `yaml:"duration_unit"`
	Strategy      string         `yaml:"strategy"`
	LocalSearch   *bool          `yaml:"local_search"`
	ReturnToDepot *bool          `yaml:"return_to_depot"`
	Output        string         `yaml:"output"`
	Regions       []RegionSeed   `yaml:"regions"`
	Coverage      []CoverageSeed `yaml:"coverage"`
}

type RegionSeed struct {
	Code               string  `yaml:"code"`
	PopulationMillions float64 `yaml:"population_millions"`
	IncomePerCapita    float64 `yaml:"income_per_capita"`
}

type CoverageSeed struct {
	Depot   string   `yaml:"depot"`
	Regions []string `yaml:"regions"`
}

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: read %q: %w", path, err)
	}
	return ParseScenario(b)
}

// ParseScenario decodes a scenario document and fills in defaults.
func ParseScenario(b []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	s.Mode = defaultString(s.Mode, "driving")
	s.Units = defaultString(s.Units, "metric")
	s.DistanceUnit = defaultString(s.DistanceUnit, "km")
	s.DurationUnit = defaultString(s.DurationUnit, "min")
	s.Strategy = defaultString(s.Strategy, string(ports.StrategyPathCheapestArc))
	s.Output = defaultString(s.Output, "comparison.csv")

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	locations, err := domain.NewLocations(s.Locations)
	if err != nil {
		return err
	}
	for _, d := range s.Depots {
		if _, err := domain.IndexOf(locations, d); err != nil {
			return fmt.Errorf("depot %q is not a listed location: %w", d, err)
		}
	}
	if _, err := domain.UnitsFor(s.DistanceUnit, s.DurationUnit); err != nil {
		return err
	}
	switch ports.Strategy(s.Strategy) {
	case ports.StrategyPathCheapestArc, ports.StrategyExact:
	default:
		return fmt.Errorf("unknown strategy %q", s.Strategy)
	}
	return nil
}

// MatrixUnits resolves the scenario's display units; validated on load.
func (s *Scenario) MatrixUnits() domain.Units {
	u, _ := domain.UnitsFor(s.DistanceUnit, s.DurationUnit)
	return u
}

// Travel returns the provider options of the scenario.
func (s *Scenario) Travel() ports.TravelOptions {
	return ports.TravelOptions{Mode: s.Mode, Units: s.Units, Region: s.Region}
}

// LocalSearchEnabled defaults to true.
func (s *Scenario) LocalSearchEnabled() bool {
	return s.LocalSearch == nil || *s.LocalSearch
}

// ReturnsToDepot defaults to true (closed tours).
func (s *Scenario) ReturnsToDepot() bool {
	return s.ReturnToDepot == nil || *s.ReturnToDepot
}

// RegionList converts the region seeds to domain regions.
func (s *Scenario) RegionList() []domain.Region {
	out := make([]domain.Region, 0, len(s.Regions))
	for _, r := range s.Regions {
		out = append(out, domain.Region{
			Code:               strings.TrimSpace(r.Code),
			PopulationMillions: r.PopulationMillions,
			IncomePerCapita:    r.IncomePerCapita,
		})
	}
	return out
}

// CoverageList converts the coverage seeds to domain coverage entries.
func (s *Scenario) CoverageList() []domain.Coverage {
	out := make([]domain.Coverage, 0, len(s.Coverage))
	for _, c := range s.Coverage {
		out = append(out, domain.Coverage{Depot: c.Depot, Regions: c.Regions})
	}
	return out
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}
