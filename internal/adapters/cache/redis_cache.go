package cache

import (
	"context"
	"depot-analysis/internal/domain"
	"depot-analysis/internal/platform/obs"
	"depot-analysis/internal/ports"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// RedisDistanceCache stores one hash per (profile, origin), one field per
// destination. TTL applies to the whole hash and is refreshed on write.
type RedisDistanceCache struct {
	rdb    *redis.Client
	prefix string
	TTL    time.Duration
}

func NewRedisDistanceCache(rdb *redis.Client) *RedisDistanceCache {
	return &RedisDistanceCache{rdb: rdb, prefix: "depot:dist:"}
}

func (r *RedisDistanceCache) key(profile, origin string) string {
	return r.prefix + profile + ":" + origin
}

func (r *RedisDistanceCache) GetMany(
	ctx context.Context,
	profile string,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.cache.GetMany")(&err)

	if r.rdb == nil {
		return nil, errors.New("distance cache: redis client is nil")
	}
	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	vals, err := r.rdb.HMGet(ctx, r.key(profile, origin), uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: hmget: %w", err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		res, err := decodeDistance(s)
		if err != nil {
			return nil, fmt.Errorf("get distance cache dest=%q: %w", uniq[i], err)
		}
		out[uniq[i]] = res
	}
	return out, nil
}

func (r *RedisDistanceCache) PutMany(
	ctx context.Context,
	profile string,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if r.rdb == nil {
		return errors.New("distance cache: redis client is nil")
	}
	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}

	fields := make(map[string]any, len(results))
	for dest, res := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert distance cache: empty destination key")
		}
		if !res.Available() {
			continue
		}
		fields[dest] = encodeDistance(res)
	}
	if len(fields) == 0 {
		return nil
	}

	key := r.key(profile, origin)
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, fields)
		if r.TTL > 0 {
			p.Expire(ctx, key, r.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert distance cache: %w", err)
	}
	return nil
}

func encodeDistance(r ports.DistanceResult) string {
	return strconv.Itoa(r.DistanceMeters) + ":" + strconv.Itoa(r.DurationSeconds)
}

func decodeDistance(s string) (ports.DistanceResult, error) {
	m, sec, ok := strings.Cut(s, ":")
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("malformed entry %q", s)
	}
	meters, err := strconv.Atoi(m)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("malformed meters %q: %w", m, err)
	}
	seconds, err := strconv.Atoi(sec)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("malformed seconds %q: %w", sec, err)
	}
	return ports.DistanceResult{DistanceMeters: meters, DurationSeconds: seconds, Status: ports.StatusOK}, nil
}

// RedisGeocodeCache stores one string key per address.
type RedisGeocodeCache struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisGeocodeCache(rdb *redis.Client) *RedisGeocodeCache {
	return &RedisGeocodeCache{rdb: rdb, prefix: "depot:geo:"}
}

func (r *RedisGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if r.rdb == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	keys := make([]string, len(uniq))
	for i, a := range uniq {
		keys[i] = r.prefix + a
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: mget: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		lon, lat, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("get geocode cache: malformed entry %q", s)
		}
		var c domain.Coordinates
		if c.Lon, err = strconv.ParseFloat(lon, 64); err != nil {
			return nil, fmt.Errorf("get geocode cache: lon %q: %w", lon, err)
		}
		if c.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
			return nil, fmt.Errorf("get geocode cache: lat %q: %w", lat, err)
		}
		out[uniq[i]] = c
	}
	return out, nil
}

func (r *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if r.rdb == nil {
		return errors.New("geocode cache: redis client is nil")
	}
	if len(results) == 0 {
		return nil
	}

	pairs := make([]any, 0, 2*len(results))
	for addr, c := range results {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}
		if !c.Valid() {
			return fmt.Errorf("insert geocode cache: invalid coordinates for %q", addr)
		}
		pairs = append(pairs, r.prefix+addr,
			strconv.FormatFloat(c.Lon, 'f', -1, 64)+","+strconv.FormatFloat(c.Lat, 'f', -1, 64))
	}

	if err := r.rdb.MSet(ctx, pairs...).Err(); err != nil {
		return fmt.Errorf("insert geocode cache: mset: %w", err)
	}
	return nil
}
