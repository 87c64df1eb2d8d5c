package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces a value on a cache miss
type LoadFunc[V any] func(ctx context.Context) (V, error)

// Loader reads through a cache, collapsing concurrent misses for the same key
// into a single call to the load function.
type Loader[V any] struct {
	cache Cache[V]
	ttl   time.Duration
	group singleflight.Group

	// OnStoreError is called when a loaded value could not be written back.
	OnStoreError func(key string, err error)
}

// NewLoader wraps c with read-through loading
func NewLoader[V any](c Cache[V], ttl time.Duration) *Loader[V] {
	return &Loader[V]{cache: c, ttl: ttl}
}

// Get returns the cached value, loading and storing it on a miss. A failing
// cache read is treated as a miss.
func (l *Loader[V]) Get(ctx context.Context, key string, load LoadFunc[V]) (V, error) {
	if v, err := l.cache.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := l.group.Do(key, func() (interface{}, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := l.cache.Set(ctx, key, v, l.ttl); err != nil && l.OnStoreError != nil {
			l.OnStoreError(key, err)
		}
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Forget drops the cached value so the next Get reloads it
func (l *Loader[V]) Forget(ctx context.Context, key string) error {
	l.group.Forget(key)
	return l.cache.Delete(ctx, key)
}
