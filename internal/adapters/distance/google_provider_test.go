package distance

import (
	"context"
	"depot-analysis/internal/ports"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGoogle struct {
	meters  map[string]int
	calls   atomic.Int32
	failFor int32
	status  string
}

func (f *fakeGoogle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := f.calls.Add(1)
	if n <= f.failFor {
		http.Error(w, "try later", http.StatusServiceUnavailable)
		return
	}
	if r.URL.Path != "/maps/api/distancematrix/json" || r.URL.Query().Get("key") != "k" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if f.status != "" {
		fmt.Fprintf(w, `{"status":%q,"error_message":"denied","rows":[]}`, f.status)
		return
	}

	origin := r.URL.Query().Get("origins")
	type elem struct {
		Status   string         `json:"status"`
		Distance map[string]int `json:"distance,omitempty"`
		Duration map[string]int `json:"duration,omitempty"`
	}
	var elems []elem
	for _, d := range strings.Split(r.URL.Query().Get("destinations"), "|") {
		if origin == d {
			elems = append(elems, elem{Status: "OK", Distance: map[string]int{"value": 0}, Duration: map[string]int{"value": 0}})
			continue
		}
		m, ok := f.meters[origin+"|"+d]
		if !ok {
			elems = append(elems, elem{Status: "ZERO_RESULTS"})
			continue
		}
		elems = append(elems, elem{Status: "OK", Distance: map[string]int{"value": m}, Duration: map[string]int{"value": m / 10}})
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "OK",
		"rows":   []map[string]any{{"elements": elems}},
	})
}

func newGoogle(t *testing.T, h http.Handler) *GoogleDistanceProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := NewGoogleDistanceProvider("k", WithRateLimit(0), WithRetry(4, time.Millisecond))
	require.NoError(t, err)
	return g.WithBaseURL(srv.URL)
}

var brOpts = ports.TravelOptions{Mode: "driving", Units: "metric", Region: "br"}

func TestGoogleGetDistancesMapsElementStatus(t *testing.T) {
	f := &fakeGoogle{meters: map[string]int{
		"Recife, PE|Natal, RN": 286000,
	}}
	g := newGoogle(t, f)

	got, err := g.GetDistances(context.Background(), "Recife, PE", []string{"Natal, RN", "Atlantis", "Natal, RN"}, brOpts)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, ports.DistanceResult{DistanceMeters: 286000, DurationSeconds: 28600, Status: ports.StatusOK}, got["Natal, RN"])
	assert.False(t, got["Atlantis"].Available())
	assert.Equal(t, ports.StatusZeroResults, got["Atlantis"].Status)
}

func TestGoogleTopLevelStatusIsAnError(t *testing.T) {
	g := newGoogle(t, &fakeGoogle{status: "REQUEST_DENIED"})

	_, err := g.GetDistances(context.Background(), "Recife, PE", []string{"Natal, RN"}, brOpts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestGoogleRetriesServerErrors(t *testing.T) {
	f := &fakeGoogle{meters: map[string]int{"A|B": 1000}, failFor: 2}
	g := newGoogle(t, f)

	got, err := g.GetDistances(context.Background(), "A", []string{"B"}, brOpts)
	require.NoError(t, err)
	assert.Equal(t, 1000, got["B"].DistanceMeters)
	assert.Equal(t, int32(3), f.calls.Load())
}

func TestGoogleGivesUpAfterMaxAttempts(t *testing.T) {
	f := &fakeGoogle{failFor: 100}
	g := newGoogle(t, f)

	_, err := g.GetDistances(context.Background(), "A", []string{"B"}, brOpts)
	var he *httpStatusError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusServiceUnavailable, he.Code)
	assert.Equal(t, int32(4), f.calls.Load())
}

func TestGoogleDoesNotRetryClientErrors(t *testing.T) {
	calls := atomic.Int32{}
	g := newGoogle(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "forbidden", http.StatusForbidden)
	}))

	_, err := g.GetDistances(context.Background(), "A", []string{"B"}, brOpts)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGoogleGetMatrix(t *testing.T) {
	f := &fakeGoogle{meters: map[string]int{
		"A|B": 1000, "B|A": 1100,
		"A|C": 2000, "C|A": 2100,
		"B|C": 3000,
	}}
	g := newGoogle(t, f)

	resp, err := g.GetMatrix(context.Background(), []string{"A", "B", "C"}, brOpts)
	require.NoError(t, err)
	require.Len(t, resp.Elements, 3)

	assert.Equal(t, ports.StatusOK, resp.Elements[0][0].Status)
	assert.Equal(t, 1000, resp.Elements[0][1].DistanceMeters)
	assert.Equal(t, 1100, resp.Elements[1][0].DistanceMeters)
	assert.Equal(t, 3000, resp.Elements[1][2].DistanceMeters)
	assert.False(t, resp.Elements[2][1].Available())
	assert.Equal(t, int32(3), f.calls.Load())
}

func TestGoogleChunksLongRows(t *testing.T) {
	var maxDest atomic.Int32
	g := newGoogle(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dests := strings.Split(r.URL.Query().Get("destinations"), "|")
		if int32(len(dests)) > maxDest.Load() {
			maxDest.Store(int32(len(dests)))
		}
		elems := make([]map[string]any, len(dests))
		for i := range dests {
			elems[i] = map[string]any{"status": "OK", "distance": map[string]int{"value": 1}, "duration": map[string]int{"value": 1}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "OK", "rows": []map[string]any{{"elements": elems}}})
	}))

	dests := make([]string, 60)
	for i := range dests {
		dests[i] = fmt.Sprintf("D%d", i)
	}
	got, err := g.GetDistances(context.Background(), "O", dests, brOpts)
	require.NoError(t, err)
	assert.Len(t, got, 60)
	assert.LessOrEqual(t, maxDest.Load(), int32(maxGoogleElements))
}

func TestNewGoogleRequiresKey(t *testing.T) {
	_, err := NewGoogleDistanceProvider("")
	require.Error(t, err)
}
