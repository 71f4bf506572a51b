package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ukydev/car-rental/internal/models"
)

const (
	statsKeyPrefix = "booking-history:stats:summary:"
	generationKey  = "booking-history:stats:generation"
)

func statsKey(generation int64) string {
	return statsKeyPrefix + strconv.FormatInt(generation, 10)
}

// StatsCache holds the most recent booking history summary.
//
// Entries are versioned by a generation that Invalidate advances. Get
// reports the generation it looked under, also on ErrMiss, and Set stores
// under the generation it is given. A summary computed before an
// invalidation is therefore written where no later Get will look.
type StatsCache interface {
	Get(ctx context.Context) (*models.BookingHistoryStats, int64, error)
	Set(ctx context.Context, generation int64, stats models.BookingHistoryStats) error
	Invalidate(ctx context.Context) error
}

// ErrMiss is returned by Get when nothing is cached.
var ErrMiss = errors.New("cache miss")

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisStatsCache stores the summary as JSON under a single key.
type RedisStatsCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStatsCache returns a cache whose entries expire after ttl.
func NewRedisStatsCache(client redis.Cmdable, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func (c *RedisStatsCache) generation(ctx context.Context) (int64, error) {
	generation, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return generation, nil
}

// Get returns the summary cached for the current generation, or ErrMiss.
func (c *RedisStatsCache) Get(ctx context.Context) (*models.BookingHistoryStats, int64, error) {
	generation, err := c.generation(ctx)
	if err != nil {
		return nil, 0, err
	}

	raw, err := c.client.Get(ctx, statsKey(generation)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, generation, ErrMiss
		}
		return nil, generation, fmt.Errorf("redis get: %w", err)
	}
	var stats models.BookingHistoryStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, generation, fmt.Errorf("decode cached stats: %w", err)
	}
	return &stats, generation, nil
}

// Set stores the summary under generation.
func (c *RedisStatsCache) Set(ctx context.Context, generation int64, stats models.BookingHistoryStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := c.client.Set(ctx, statsKey(generation), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate advances the generation. Entries under older generations
// are never read again and expire with their TTL.
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	return nil
}
