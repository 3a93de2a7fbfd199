package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "accountsync:"
	scanBatchSize    = 500
	pingTimeout      = 5 * time.Second
)

var (
	ErrKeyNotFound = errors.New("key not found in redis")

	errStopScan = errors.New("stop scan")
)

// Config holds all required info for initializing the redis driver.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Database int32  `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// KeyPrefix namespaces every key so several deployments can share one
	// database. Defaults to "accountsync:".
	KeyPrefix string `mapstructure:"keyPrefix"`
}

// RedisCache stores the account cache in redis, shared by every process
// pointing at the same database and prefix.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewCache connects to redis and verifies the connection with a ping.
func NewCache(config *Config) (*RedisCache, error) {
	if config == nil {
		config = getDefaultConfig()
	}

	redisClient := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{fmt.Sprintf("%s:%s", config.Host, config.Port)},
		Username: config.Username,
		Password: config.Password,
		DB:       int(config.Database),
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}
	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to instrument redis metrics: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	return newRedisCache(redisClient, config.KeyPrefix), nil
}

func newRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

func getDefaultConfig() *Config {
	return &Config{
		Host: "localhost",
		Port: "6379",
	}
}

func (rc *RedisCache) key(key string) string {
	return rc.prefix + key
}

// Set stores value under key. A zero or negative ttl keeps the key until it
// is deleted.
func (rc *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl < 0 {
		// go-redis reads -1 as KEEPTTL
		ttl = 0
	}
	return rc.client.Set(ctx, rc.key(key), value, ttl).Err()
}

func (rc *RedisCache) Get(ctx context.Context, key string) (interface{}, error) {
	val, err := rc.client.Get(ctx, rc.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return val, nil
}

// GetByPattern returns the values of every key matching the glob pattern.
// Returned keys are unprefixed.
func (rc *RedisCache) GetByPattern(ctx context.Context, keyPattern string) (map[string]interface{}, error) {
	values := make(map[string]interface{})
	err := rc.scan(ctx, keyPattern, func(keys []string) error {
		vals, err := rc.client.MGet(ctx, keys...).Result()
		if err != nil {
			return err
		}
		for i, key := range keys {
			// expired between SCAN and MGET
			if vals[i] == nil {
				continue
			}
			values[strings.TrimPrefix(key, rc.prefix)] = vals[i]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// DeleteByPattern removes every key matching the glob pattern and returns
// how many were removed.
func (rc *RedisCache) DeleteByPattern(ctx context.Context, keyPattern string) (int, error) {
	deleted := 0
	err := rc.scan(ctx, keyPattern, func(keys []string) error {
		n, err := rc.client.Unlink(ctx, keys...).Result()
		deleted += int(n)
		return err
	})
	return deleted, err
}

// ExistsByPattern reports whether at least one key matches the glob pattern.
// It stops scanning at the first match and never reads values.
func (rc *RedisCache) ExistsByPattern(ctx context.Context, keyPattern string) (bool, error) {
	err := rc.scan(ctx, keyPattern, func([]string) error {
		return errStopScan
	})
	if errors.Is(err, errStopScan) {
		return true, nil
	}
	return false, err
}

// scan walks the keyspace under the prefix and hands fn one batch of fully
// prefixed keys at a time.
func (rc *RedisCache) scan(ctx context.Context, keyPattern string, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := rc.client.Scan(ctx, cursor, rc.key(keyPattern), scanBatchSize).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	return rc.client.Del(ctx, rc.key(key)).Err()
}

// Disconnect closes the connection pool.
func (rc *RedisCache) Disconnect() error {
	return rc.client.Close()
}
