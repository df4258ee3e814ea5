package config

import (
	"depot-analysis/internal/domain"
	"depot-analysis/internal/ports"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenarioDefaults(t *testing.T) {
	s, err := ParseScenario([]byte(`
locations: [A, B, C]
depots: [A]
`))
	require.NoError(t, err)

	assert.Equal(t, ports.TravelOptions{Mode: "driving", Units: "metric"}, s.Travel())
	assert.Equal(t, domain.DefaultUnits, s.MatrixUnits())
	assert.Equal(t, string(ports.StrategyPathCheapestArc), s.Strategy)
	assert.True(t, s.LocalSearchEnabled())
	assert.True(t, s.ReturnsToDepot())
	assert.Equal(t, "comparison.csv", s.Output)
}

func TestParseScenarioDepotMatchesCollapsedWhitespace(t *testing.T) {
	s, err := ParseScenario([]byte(`
locations: ["Recife, PE", "Natal, RN"]
depots: ["Recife,  PE"]
`))
	require.NoError(t, err)

	locations, err := domain.NewLocations(s.Locations)
	require.NoError(t, err)
	idx, err := domain.IndexOf(locations, s.Depots[0])
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestParseScenarioRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown depot", "locations: [A, B]\ndepots: [C]\n"},
		{"duplicate location", "locations: [A, A]\n"},
		{"bad unit", "locations: [A]\ndistance_unit: miles\n"},
		{"bad strategy", "locations: [A]\nstrategy: genetic\n"},
		{"not yaml", "locations: [A\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestLoadScenarioNortheast(t *testing.T) {
	s, err := LoadScenario(filepath.Join("..", "..", "configs", "northeast.yaml"))
	require.NoError(t, err)

	assert.Len(t, s.Locations, 8)
	assert.Equal(t, []string{"Recife, PE", "Salvador, BA"}, s.Depots)
	assert.Equal(t, "br", s.Region)
	assert.Len(t, s.RegionList(), 8)
	require.Len(t, s.CoverageList(), 2)
	assert.Equal(t, []string{"BA", "SE", "AL", "PB", "PI"}, s.CoverageList()[1].Regions)
}

func TestGetFallsBack(t *testing.T) {
	t.Setenv("DEPOT_TEST_VALUE", "  ")
	assert.Equal(t, "x", Get("DEPOT_TEST_VALUE", "x"))

	t.Setenv("DEPOT_TEST_VALUE", "y")
	assert.Equal(t, "y", Get("DEPOT_TEST_VALUE", "x"))

	t.Setenv("DEPOT_TEST_QPS", "nope")
	assert.Equal(t, 3.0, GetFloat("DEPOT_TEST_QPS", 3))

	os.Unsetenv("DEPOT_TEST_QPS")
	assert.Equal(t, 3.0, GetFloat("DEPOT_TEST_QPS", 3))
}
