package backends

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/dataobs/lens/pkg/storage"
)

// RedisCounters implements storage.CounterCache against Redis
type RedisCounters struct {
	client *redis.Client
}

// NewRedisCounters creates a new Redis counter client
func NewRedisCounters(config storage.Config) (*RedisCounters, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if config.RedisPassword != "" {
		opts.Password = config.RedisPassword
	}
	if config.RedisDB >= 0 {
		opts.DB = config.RedisDB
	}
	if config.RedisMaxRetries > 0 {
		opts.MaxRetries = config.RedisMaxRetries
	}
	if config.RedisPoolSize > 0 {
		opts.PoolSize = config.RedisPoolSize
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCounters{client: client}, nil
}

// Get reads a single counter. A key that was never written reads as zero.
func (c *RedisCounters) Get(ctx context.Context, key string) (int64, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter %s holds non-numeric value %q", key, val)
	}
	return n, nil
}

// HGetAll reads a counter table. A missing key reads as an empty table.
func (c *RedisCounters) HGetAll(ctx context.Context, key string) (map[string]int64, error) {
	fields, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	counts := make(map[string]int64, len(fields))
	for field, val := range fields {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("counter %s field %s holds non-numeric value %q", key, field, val)
		}
		counts[field] = n
	}
	return counts, nil
}

// Incr increments a counter
func (c *RedisCounters) Incr(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	return n, nil
}

// HIncrBy increments a field in a counter table
func (c *RedisCounters) HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error) {
	n, err := c.client.HIncrBy(ctx, key, field, incr).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	return n, nil
}

// Ping checks Redis connectivity
func (c *RedisCounters) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GetClient returns the underlying Redis client for health checks
func (c *RedisCounters) GetClient() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *RedisCounters) Close() error {
	return c.client.Close()
}
