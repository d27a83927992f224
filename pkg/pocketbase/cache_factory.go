package pocketbase

import (
	"context"
	"fmt"
)

// CacheType selects the cache backend.
type CacheType string

const (
	// CacheTypeMemory selects the in-process memory cache.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS selects the NATS JetStream KV cache.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone disables caching.
	CacheTypeNone CacheType = "none"
)

// CacheConfig configures the optional response cache. The zero value (and a
// nil *CacheConfig) disables caching, matching the client's default of no
// caching between calls.
type CacheConfig struct {
	// Type is the cache backend type.
	Type CacheType

	// MemoryMaxSize bounds the memory cache entry count.
	MemoryMaxSize int

	// NATS configures the NATS KV backend.
	NATS *NATSKVConfig

	// Policy decides which requests are cacheable. Nil falls back to
	// DefaultCachingPolicy.
	Policy *CachingPolicy
}

// NewCacheFromConfig creates a cache backend from configuration. A nil
// config or CacheTypeNone yields a no-op cache.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		return NewNoOpCache(), nil
	}

	switch config.Type {
	case CacheTypeMemory:
		return NewMemoryCache(config.MemoryMaxSize), nil

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCache(config.NATS)

	case CacheTypeNone, "":
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCache, config.Type)
	}
}

// NewCacheManagerFromConfig builds a CacheManager from configuration,
// returning nil when caching is disabled.
func NewCacheManagerFromConfig(config *CacheConfig) (*CacheManager, error) {
	if config == nil || config.Type == CacheTypeNone || config.Type == "" {
		return nil, nil
	}

	cache, err := NewCacheFromConfig(config)
	if err != nil {
		return nil, err
	}

	return NewCacheManager(cache, config.Policy), nil
}

// NoOpCache is a cache that stores nothing.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always misses.
func (c *NoOpCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

// Set does nothing.
func (c *NoOpCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return nil
}

// Delete does nothing.
func (c *NoOpCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Clear does nothing.
func (c *NoOpCache) Clear(ctx context.Context) error {
	return nil
}

// Has always reports false.
func (c *NoOpCache) Has(ctx context.Context, key string) bool {
	return false
}
