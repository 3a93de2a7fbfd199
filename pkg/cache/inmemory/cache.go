package inmemory

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

var (
	ErrKeyNotFound = errors.New("key not found in cache")
)

// Config holds the expiration settings, in seconds. Negative values disable
// expiration and the cleanup janitor respectively.
type Config struct {
	DefaultExpiration int32 `mapstructure:"defaultExpiration"`
	CleanupInterval   int32 `mapstructure:"cleanupInterval"`
}

// InMemoryCache is a process local cache backed by go-cache.
type InMemoryCache struct {
	client *gocache.Cache
}

// NewCache creates an in-memory cache. A nil config never expires entries.
func NewCache(config *Config) (*InMemoryCache, error) {
	if config == nil {
		config = getDefaultConfig()
	}

	return &InMemoryCache{
		client: gocache.New(
			time.Duration(config.DefaultExpiration)*time.Second,
			time.Duration(config.CleanupInterval)*time.Second,
		),
	}, nil
}

func getDefaultConfig() *Config {
	return &Config{
		DefaultExpiration: -1,
		CleanupInterval:   -1,
	}
}

// Set stores value under key. A zero ttl uses the configured default
// expiration, a negative one never expires.
func (c *InMemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	switch {
	case ttl == 0:
		ttl = gocache.DefaultExpiration
	case ttl < 0:
		ttl = gocache.NoExpiration
	}
	c.client.Set(key, value, ttl)
	return nil
}

func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, error) {
	val, found := c.client.Get(key)
	if !found {
		return "", ErrKeyNotFound
	}
	return val, nil
}

// GetByPattern returns every unexpired entry whose key matches the glob pattern.
func (c *InMemoryCache) GetByPattern(_ context.Context, keyPattern string) (map[string]interface{}, error) {
	glob, err := compileGlob(keyPattern)
	if err != nil {
		return nil, err
	}
	values := make(map[string]interface{})
	for key, item := range c.client.Items() {
		if glob.MatchString(key) {
			values[key] = item.Object
		}
	}
	return values, nil
}

// DeleteByPattern removes every entry whose key matches the glob pattern.
func (c *InMemoryCache) DeleteByPattern(_ context.Context, keyPattern string) (int, error) {
	glob, err := compileGlob(keyPattern)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for key := range c.client.Items() {
		if glob.MatchString(key) {
			c.client.Delete(key)
			deleted++
		}
	}
	return deleted, nil
}

// ExistsByPattern reports whether an unexpired entry matches the glob pattern.
func (c *InMemoryCache) ExistsByPattern(_ context.Context, keyPattern string) (bool, error) {
	glob, err := compileGlob(keyPattern)
	if err != nil {
		return false, err
	}
	for key := range c.client.Items() {
		if glob.MatchString(key) {
			return true, nil
		}
	}
	return false, nil
}

func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.client.Delete(key)
	return nil
}
