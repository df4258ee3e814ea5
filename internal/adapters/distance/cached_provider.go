package distance

import (
	"context"
	"depot-analysis/internal/platform/metrics"
	"depot-analysis/internal/platform/obs"
	"depot-analysis/internal/ports"
	"errors"
	"fmt"
	"log"
	"strings"
)

// CachedProvider decorates a DistanceProvider with a persistent
// origin->destination cache. Only available results are stored, so pairs
// the upstream could not resolve are asked for again on the next run.
type CachedProvider struct {
	next  ports.DistanceProvider
	name  string
	cache ports.DistanceCache
}

type named interface {
	Name() string
}

func NewCachedProvider(next ports.DistanceProvider, cache ports.DistanceCache) (*CachedProvider, error) {
	if next == nil {
		return nil, errors.New("cached provider: upstream provider is nil")
	}
	if cache == nil {
		return nil, errors.New("cached provider: cache is nil")
	}
	name := "provider"
	if n, ok := next.(named); ok {
		name = n.Name()
	}
	return &CachedProvider{next: next, name: name, cache: cache}, nil
}

func (c *CachedProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
	opts ports.TravelOptions,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "cache.GetDistances")(&err)

	normOrigin := normalize(origin)
	if normOrigin == "" {
		return nil, errors.New("origin must be non-empty")
	}

	destList := dedupe(destinations)
	if len(destList) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	profile := cacheProfile(c.name, opts)

	// Check persistent distance cache before issuing external API calls.
	hits, err := c.cache.GetMany(ctx, profile, normOrigin, destList)
	if err != nil {
		return nil, fmt.Errorf("get distance cache: %w", err)
	}

	misses := make([]string, 0, len(destList))
	for _, d := range destList {
		if r, ok := hits[d]; ok && r.Available() {
			continue
		}
		delete(hits, d)
		misses = append(misses, d)
	}
	metrics.CacheLookups.WithLabelValues(c.name, "hit").Add(float64(len(hits)))
	metrics.CacheLookups.WithLabelValues(c.name, "miss").Add(float64(len(misses)))

	if len(misses) == 0 {
		return hits, nil
	}

	fetched, err := c.next.GetDistances(ctx, normOrigin, misses, opts)
	if err != nil {
		return nil, err
	}

	store := make(map[string]ports.DistanceResult, len(fetched))
	for k, v := range fetched {
		if v.Available() {
			store[k] = v
		}
	}
	if len(store) > 0 {
		if err := c.cache.PutMany(ctx, profile, normOrigin, store); err != nil {
			log.Printf("req_id=%s distance cache write failed: %v", obs.RequestID(ctx), err)
		}
	}

	out := make(map[string]ports.DistanceResult, len(hits)+len(fetched))
	for k, v := range hits {
		out[k] = v
	}
	for k, v := range fetched {
		out[k] = v
	}

	return out, nil
}

// cacheProfile scopes entries by upstream, travel mode and region, e.g.
// "google:driving:br". Units only change how the API formats text, the
// cached meters and seconds are the same.
func cacheProfile(provider string, opts ports.TravelOptions) string {
	mode := strings.ToLower(strings.TrimSpace(opts.Mode))
	if mode == "" {
		mode = "driving"
	}
	return provider + ":" + mode + ":" + strings.ToLower(strings.TrimSpace(opts.Region))
}
