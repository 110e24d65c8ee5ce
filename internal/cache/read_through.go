package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// ReadThrough serves values from a Cache and collapses concurrent misses
// for the same key into one load.
type ReadThrough struct {
	cache Cache
	group singleflight.Group
}

func NewReadThrough(c Cache) *ReadThrough {
	return &ReadThrough{cache: c}
}

// Load returns the cached value for key, or calls load and caches its result.
// Cache failures are logged and never fail the call.
func Load[T any](ctx context.Context, rt *ReadThrough, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T

	found, err := rt.cache.Get(ctx, key, &cached)
	if err != nil {
		slog.Warn("Cache read failed, loading from source", slog.String("key", key), slog.String("error", err.Error()))
	} else if found {
		return cached, nil
	}

	v, err, shared := rt.group.Do(key, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return value, err
		}

		if err := rt.cache.Set(ctx, key, value, ttl); err != nil {
			slog.Warn("Cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}

		return value, nil
	})
	if err != nil {
		var zero T

		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		var zero T

		return zero, fmt.Errorf("unexpected cached type %T for key %s", v, key)
	}

	if shared {
		slog.Debug("Cache load shared", slog.String("key", key))
	}

	return value, nil
}

// Forget drops key from the cache.
func (rt *ReadThrough) Forget(ctx context.Context, key string) error {
	rt.group.Forget(key)

	return rt.cache.Delete(ctx, key)
}
