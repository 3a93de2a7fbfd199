package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redhat-data-and-ai/accountsync/pkg/cache/inmemory"
	"github.com/redhat-data-and-ai/accountsync/pkg/cache/redis"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// NoExpiration keeps a key until it is deleted, whatever default expiration
// the driver is configured with. A zero ttl means the driver default.
const NoExpiration time.Duration = -1

// Cache is the key/value contract shared by the in-memory and redis drivers.
type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (interface{}, error)
	GetByPattern(ctx context.Context, keyPattern string) (map[string]interface{}, error)
	DeleteByPattern(ctx context.Context, keyPattern string) (int, error)
	ExistsByPattern(ctx context.Context, keyPattern string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Config selects and configures the cache driver.
type Config struct {
	Driver   string           `mapstructure:"driver" validate:"omitempty,oneof=memory redis"`
	InMemory *inmemory.Config `mapstructure:"inmemory"`
	Redis    *redis.Config    `mapstructure:"redis"`
}

// New creates the cache configured by config.Driver.
func New(config *Config) (Cache, error) {
	if config == nil {
		return nil, errors.New("cache config is nil")
	}

	switch config.Driver {
	case DriverMemory, "":
		return inmemory.NewCache(config.InMemory)
	case DriverRedis:
		return redis.NewCache(config.Redis)
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", config.Driver)
	}
}

// IsKeyNotFound reports whether err is the "missing key" error of any driver.
func IsKeyNotFound(err error) bool {
	return errors.Is(err, inmemory.ErrKeyNotFound) || errors.Is(err, redis.ErrKeyNotFound)
}

var (
	_ Cache = (*inmemory.InMemoryCache)(nil)
	_ Cache = (*redis.RedisCache)(nil)
)
