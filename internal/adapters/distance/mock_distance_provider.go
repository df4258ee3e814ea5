package distance

import (
	"context"
	"depot-analysis/internal/ports"
	"sync"
)

type MockPair struct {
	From, To string
	Meters   int
	Seconds  int
}

// MockDistanceProvider serves fixed pairs keyed "from|to". Pairs it does
// not know are reported as NOT_FOUND. It counts upstream calls so tests
// can observe caching.
type MockDistanceProvider struct {
	m   map[string]ports.DistanceResult
	Err error

	mu    sync.Mutex
	calls int
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.DistanceResult{
			DistanceMeters:  p.Meters,
			DurationSeconds: p.Seconds,
			Status:          ports.StatusOK,
		}
	}
	return &MockDistanceProvider{m: m}
}

// Symmetric adds the reverse of every pair.
func Symmetric(pairs []MockPair) []MockPair {
	out := make([]MockPair, 0, 2*len(pairs))
	for _, p := range pairs {
		out = append(out, p, MockPair{From: p.To, To: p.From, Meters: p.Meters, Seconds: p.Seconds})
	}
	return out
}

func (p *MockDistanceProvider) Name() string { return "mock" }

func (p *MockDistanceProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
	opts ports.TravelOptions,
) (map[string]ports.DistanceResult, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		if d == origin {
			out[d] = ports.DistanceResult{Status: ports.StatusOK}
			continue
		}
		r, ok := p.m[origin+"|"+d]
		if !ok {
			r = ports.DistanceResult{Status: ports.StatusNotFound}
		}
		out[d] = r
	}
	return out, nil
}

// Calls reports how many times GetDistances was invoked.
func (p *MockDistanceProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
