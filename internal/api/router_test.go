package api

import (
	"bytes"
	"context"
	"depot-analysis/internal/adapters/distance"
	"depot-analysis/internal/adapters/repositories"
	"depot-analysis/internal/adapters/solver"
	"depot-analysis/internal/api/dto"
	"depot-analysis/internal/api/handlers"
	"depot-analysis/internal/platform/db"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hubProvider() *distance.MockDistanceProvider {
	return distance.NewMockDistanceProvider(distance.Symmetric([]distance.MockPair{
		{From: "HUB", To: "A", Meters: 1000, Seconds: 300},
		{From: "HUB", To: "B", Meters: 2000, Seconds: 600},
		{From: "HUB", To: "C", Meters: 1500, Seconds: 450},
		{From: "A", To: "B", Meters: 800, Seconds: 240},
		{From: "A", To: "C", Meters: 700, Seconds: 210},
		{From: "B", To: "C", Meters: 900, Seconds: 270},
	}))
}

func newServer(t *testing.T, provider *distance.MockDistanceProvider) (*httptest.Server, *repositories.SQLRunRepository) {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, repositories.InitSchema(context.Background(), conn, db.SQLite))
	runs := repositories.NewSQLRunRepository(conn, db.SQLite)

	srv := httptest.NewServer(NewRouter(Deps{
		Provider:  provider,
		Optimizer: solver.New(),
		Runs:      runs,
	}))
	t.Cleanup(srv.Close)
	return srv, runs
}

func post(t *testing.T, url string, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t, hubProvider())

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestCreateComparison(t *testing.T) {
	srv, runs := newServer(t, hubProvider())

	resp, body := post(t, srv.URL+"/comparisons", `{
		"locations": ["HUB", "A", "B", "C"],
		"depots": ["HUB", "C"],
		"distance_unit": "m",
		"duration_unit": "s"
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var res dto.ComparisonResponse
	require.NoError(t, json.Unmarshal(body, &res))

	assert.Equal(t, []string{"HUB", "C"}, res.Depots)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "A", res.Rows[0].Location)
	assert.Equal(t, 1000, *res.Rows[0].Distances[0])
	assert.Equal(t, dto.AggregateResponse{Sum: 3000, Count: 2, Mean: 1500}, res.Summaries[0].Distance)
	assert.Equal(t, "m", res.Units.Distance)
	require.Len(t, res.Tours, 2)
	assert.True(t, res.Tours[0].Found)
	assert.Equal(t, 4200, *res.Tours[0].Cost)

	run, err := runs.GetRun(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3000, run.Summaries[0].Distance.Sum)

	getResp, err := http.Get(srv.URL + "/runs/" + res.RunID)
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
}

func TestRepeatedRequestIDGetsDistinctRuns(t *testing.T) {
	srv, _ := newServer(t, hubProvider())

	create := func(depot string) dto.ComparisonResponse {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/comparisons", strings.NewReader(
			`{"locations": ["HUB", "A", "B", "C"], "depots": ["`+depot+`"]}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", "trace-1")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "trace-1", resp.Header.Get("X-Request-ID"))

		var res dto.ComparisonResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		return res
	}

	first := create("HUB")
	second := create("C")
	require.NotEqual(t, first.RunID, second.RunID)
	assert.NotEqual(t, "trace-1", second.RunID)

	for _, tc := range []struct {
		runID string
		depot string
	}{{first.RunID, "HUB"}, {second.RunID, "C"}} {
		resp, err := http.Get(srv.URL + "/runs/" + tc.runID)
		require.NoError(t, err)
		var run dto.RunResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
		resp.Body.Close()

		require.Len(t, run.Summaries, 1)
		assert.Equal(t, tc.depot, run.Summaries[0].Depot)
	}
}

func TestCreateComparisonErrors(t *testing.T) {
	failing := hubProvider()
	failing.Err = errors.New("REQUEST_DENIED")
	bad, _ := newServer(t, failing)
	good, _ := newServer(t, hubProvider())

	tests := []struct {
		name   string
		url    string
		body   string
		status int
	}{
		{"not json", good.URL, `nope`, http.StatusBadRequest},
		{"unknown field", good.URL, `{"locations":["A","B"],"depots":["A"],"extra":1}`, http.StatusBadRequest},
		{"two objects", good.URL, `{"locations":["A","B"],"depots":["A"]}{}`, http.StatusBadRequest},
		{"one location", good.URL, `{"locations":["A"],"depots":["A"]}`, http.StatusBadRequest},
		{"no depots", good.URL, `{"locations":["A","B"]}`, http.StatusBadRequest},
		{"unknown depot", good.URL, `{"locations":["HUB","A"],"depots":["Z"]}`, http.StatusBadRequest},
		{"duplicate location", good.URL, `{"locations":["HUB","HUB"],"depots":["HUB"]}`, http.StatusBadRequest},
		{"all depots", good.URL, `{"locations":["HUB","A"],"depots":["HUB","A"],"skip_routes":true}`, http.StatusBadRequest},
		{"bad unit", good.URL, `{"locations":["HUB","A"],"depots":["HUB"],"distance_unit":"mi"}`, http.StatusBadRequest},
		{"bad strategy", good.URL, `{"locations":["HUB","A"],"depots":["HUB"],"strategy":"genetic"}`, http.StatusBadRequest},
		{"provider failure", bad.URL, `{"locations":["HUB","A"],"depots":["HUB"]}`, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, tt.url+"/comparisons", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
		})
	}
}

func TestMatrixComparison(t *testing.T) {
	srv, _ := newServer(t, hubProvider())

	resp, body := post(t, srv.URL+"/comparisons/matrix", `{
		"locations": ["A", "B", "C", "D"],
		"distances": [[0,10,null,7],[10,0,6,4],[5,6,0,3],[7,4,3,0]],
		"durations": [[0,20,10,14],[20,0,12,8],[10,12,0,6],[14,8,6,0]],
		"depots": ["A", "B"]
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var res dto.ComparisonResponse
	require.NoError(t, json.Unmarshal(body, &res))

	assert.Nil(t, res.Rows[0].Distances[0])
	assert.Equal(t, 6, *res.Rows[0].Distances[1])
	assert.Equal(t, dto.AggregateResponse{Sum: 7, Count: 1, Mean: 7}, res.Summaries[0].Distance)
	assert.Equal(t, dto.AggregateResponse{Sum: 10, Count: 2, Mean: 5}, res.Summaries[1].Distance)
	require.Len(t, res.Missing, 1)
	assert.Equal(t, dto.MissingResponse{Metric: "distance", Depot: "A", Location: "C"}, res.Missing[0])
}

func TestMatrixComparisonShapeMismatch(t *testing.T) {
	srv, _ := newServer(t, hubProvider())

	resp, body := post(t, srv.URL+"/comparisons/matrix", `{
		"locations": ["A", "B", "C"],
		"distances": [[0,1],[1,0]],
		"durations": [[0,1],[1,0]],
		"depots": ["A"]
	}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "shape mismatch")

	resp, _ = post(t, srv.URL+"/comparisons/matrix", `{
		"locations": ["A", "B"],
		"distances": [[0,-1],[1,0]],
		"durations": [[0,1],[1,0]],
		"depots": ["A"]
	}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateRoute(t *testing.T) {
	srv, _ := newServer(t, hubProvider())

	resp, body := post(t, srv.URL+"/routes", `{
		"locations": ["A", "B", "C", "D"],
		"costs": [[0,10,15,20],[10,0,35,25],[15,35,0,30],[20,25,30,0]],
		"depot": "A"
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var res dto.TourResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.True(t, res.Found)
	assert.Equal(t, 80, *res.Cost)
	assert.Equal(t, []string{"A", "B", "D", "C", "A"}, res.Stops)
}

func TestCreateRouteNoSolution(t *testing.T) {
	srv, _ := newServer(t, hubProvider())

	resp, body := post(t, srv.URL+"/routes", `{
		"locations": ["A", "B"],
		"costs": [[0,1],[null,0]]
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"depot":"A","found":false,"closed":true}`, string(body))
}

func TestRejectsTooManyLocations(t *testing.T) {
	provider := hubProvider()
	srv, _ := newServer(t, provider)

	names := make([]string, handlers.MaxLocations+1)
	for i := range names {
		names[i] = fmt.Sprintf("L%d", i)
	}
	locs, err := json.Marshal(names)
	require.NoError(t, err)

	bodies := map[string]string{
		"/comparisons":        `{"locations": ` + string(locs) + `, "depots": ["L0"]}`,
		"/comparisons/matrix": `{"locations": ` + string(locs) + `, "distances": [], "durations": [], "depots": ["L0"]}`,
		"/routes":             `{"locations": ` + string(locs) + `, "costs": []}`,
	}
	for path, body := range bodies {
		resp, out := post(t, srv.URL+path, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Contains(t, string(out), "too many locations", path)
	}
	assert.Zero(t, provider.Calls())
}

func TestRunNotFound(t *testing.T) {
	srv, _ := newServer(t, hubProvider())

	resp, err := http.Get(srv.URL + "/runs/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newServer(t, hubProvider())

	_, _ = post(t, srv.URL+"/comparisons/matrix", `{"locations":["A","B"],"distances":[[0,1],[1,0]],"durations":[[0,1],[1,0]],"depots":["A"]}`)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, buf.String(), `http_requests_total{method="POST",route="/comparisons/matrix",status="200"}`)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newServer(t, hubProvider())

	resp, err := http.Get(srv.URL + "/comparisons")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
