package cache

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero = no expiry
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type bucket[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
}

// MemoryCache is an in-process cache split into independently locked buckets
type MemoryCache[V any] struct {
	buckets []*bucket[V]
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryCache creates a 32-bucket cache swept every second.
func NewMemoryCache[V any]() *MemoryCache[V] {
	return NewMemoryCacheWithOptions[V](32, time.Second)
}

// NewMemoryCacheWithOptions allows customizing bucket count & sweep interval.
func NewMemoryCacheWithOptions[V any](buckets int, sweepEvery time.Duration) *MemoryCache[V] {
	if buckets <= 0 {
		buckets = 1
	}
	mc := &MemoryCache[V]{
		buckets: make([]*bucket[V], buckets),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for i := range mc.buckets {
		mc.buckets[i] = &bucket[V]{entries: make(map[string]entry[V])}
	}
	if sweepEvery > 0 {
		go mc.sweep(sweepEvery)
	}
	return mc
}

// Stop terminates the sweeper goroutine.
func (mc *MemoryCache[V]) Stop() {
	mc.once.Do(func() { close(mc.stop) })
}

func (mc *MemoryCache[V]) bucketFor(key string) *bucket[V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return mc.buckets[h.Sum32()%uint32(len(mc.buckets))]
}

func (mc *MemoryCache[V]) Get(_ context.Context, key string) (V, error) {
	var zero V
	b := mc.bucketFor(key)

	b.mu.RLock()
	e, ok := b.entries[key]
	b.mu.RUnlock()

	if !ok || e.expired(mc.now()) {
		return zero, ErrCacheMiss
	}
	return e.value, nil
}

func (mc *MemoryCache[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	e := entry[V]{value: value}
	if ttl > 0 {
		e.expiresAt = mc.now().Add(ttl)
	}
	b := mc.bucketFor(key)
	b.mu.Lock()
	b.entries[key] = e
	b.mu.Unlock()
	return nil
}

func (mc *MemoryCache[V]) Delete(_ context.Context, key string) error {
	b := mc.bucketFor(key)
	b.mu.Lock()
	delete(b.entries, key)
	b.mu.Unlock()
	return nil
}

// Len counts live entries
func (mc *MemoryCache[V]) Len() int {
	now := mc.now()
	n := 0
	for _, b := range mc.buckets {
		b.mu.RLock()
		for _, e := range b.entries {
			if !e.expired(now) {
				n++
			}
		}
		b.mu.RUnlock()
	}
	return n
}

func (mc *MemoryCache[V]) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			mc.evictExpired()
		case <-mc.stop:
			return
		}
	}
}

func (mc *MemoryCache[V]) evictExpired() {
	now := mc.now()
	for _, b := range mc.buckets {
		b.mu.Lock()
		for k, e := range b.entries {
			if e.expired(now) {
				delete(b.entries, k)
			}
		}
		b.mu.Unlock()
	}
}
