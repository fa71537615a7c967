package common

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quadramall/apienvelope/internal/logging"
	"quadramall/apienvelope/internal/metrics"
)

// GetJSON decodes a cached value into T.
func GetJSON[T any](ctx context.Context, c CacheInterface, key string) (T, bool) {
	var out T
	raw, found := c.Get(ctx, key)
	if !found {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		logging.Warn("Cache: failed to decode value", "key", key, "error", err.Error())
		return out, false
	}
	return out, true
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, c CacheInterface, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		logging.Warn("Cache: failed to encode value", "key", key, "error", err.Error())
		return
	}
	c.Set(ctx, key, raw, ttl)
}

// Loader reads through a cache, collapsing concurrent misses for the same key
// into one load. Each key carries a generation that Invalidate bumps; a load
// that started under an older generation never leaves its result in the cache.
type Loader struct {
	cache   CacheInterface
	group   singleflight.Group
	metrics *metrics.MetricsRegistry

	mu   sync.Mutex
	gens map[string]uint64
}

func NewLoader(c CacheInterface, m *metrics.MetricsRegistry) *Loader {
	return &Loader{cache: c, metrics: m, gens: make(map[string]uint64)}
}

func (l *Loader) Cache() CacheInterface { return l.cache }

// Invalidate drops key and makes any load already in flight for it discard
// its result instead of caching it.
func (l *Loader) Invalidate(ctx context.Context, key string) {
	l.mu.Lock()
	l.gens[key]++
	l.mu.Unlock()

	l.group.Forget(key)
	l.cache.Delete(ctx, key)
}

func (l *Loader) generation(key string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gens[key]
}

// store caches value only if key has not been invalidated since gen was read.
// The second check covers an Invalidate that lands between the check and Set.
func (l *Loader) store(ctx context.Context, key string, gen uint64, value any, ttl time.Duration) {
	if l.generation(key) != gen {
		return
	}
	SetJSON(ctx, l.cache, key, value, ttl)
	if l.generation(key) != gen {
		l.cache.Delete(ctx, key)
	}
}

// Remember returns the cached T under key or calls load, caches and returns its result.
// pattern labels the hit/miss metrics.
func Remember[T any](ctx context.Context, l *Loader, pattern, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if v, found := GetJSON[T](ctx, l.cache, key); found {
		l.observe(pattern, true)
		return v, nil
	}
	l.observe(pattern, false)

	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		gen := l.generation(key)
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		l.store(ctx, key, gen, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Refresh calls load and replaces the cached value under key, unless key is
// invalidated while load runs.
func Refresh[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, load func(context.Context) (T, error)) error {
	gen := l.generation(key)
	v, err := load(ctx)
	if err != nil {
		return err
	}
	l.store(ctx, key, gen, v, ttl)
	return nil
}

func (l *Loader) observe(pattern string, hit bool) {
	if l.metrics == nil {
		return
	}
	if hit {
		l.metrics.CacheHitsTotal.WithLabelValues(pattern).Inc()
	} else {
		l.metrics.CacheMissesTotal.WithLabelValues(pattern).Inc()
	}
}
