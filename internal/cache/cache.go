package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	RedisBackend  = "redis"
	MemoryBackend = "memory"
)

var (
	ErrCacheMiss      = errors.New("cache: key not found")
	ErrUnknownBackend = errors.New("cache: unknown backend")
)

// Cache is our generic cache interface.
type Cache[V any] interface {
	// Get returns the value or ErrCacheMiss.
	Get(ctx context.Context, key string) (V, error)
	// Set stores value under key, with TTL. Zero ttl = no expiration.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	// Delete removes the key.
	Delete(ctx context.Context, key string) error
}

// Config selects and tunes a cache backend
type Config struct {
	Backend string `env:"CACHE_BACKEND" env-default:"memory" validate:"oneof=memory redis"`
	Prefix  string `env:"CACHE_PREFIX" env-default:"betsolana"`
	Redis   RedisOptions
}

// NewCache builds the backend named in cfg
func NewCache[V any](cfg Config) (Cache[V], error) {
	switch cfg.Backend {
	case RedisBackend:
		opts := cfg.Redis
		opts.Prefix = cfg.Prefix
		return NewRedisCache[V](&opts), nil
	case MemoryBackend, "":
		return NewMemoryCache[V](), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func namespaced(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}
