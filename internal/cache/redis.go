package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "dentalcare:"

// Redis shares cached responses between API instances.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to REDIS_URL and verifies the connection.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get from cache: %w", err)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, redisPrefix+key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in cache: %w", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context, inv Invalidation) error {
	var patterns []string
	for _, k := range inv.Keys {
		patterns = append(patterns, redisPrefix+string(k)+`\?*`)
	}
	for _, k := range inv.Trees {
		patterns = append(patterns, redisPrefix+string(k)+`\?*`, redisPrefix+string(k)+":*")
	}

	var stale []string
	for _, k := range append(inv.Keys, inv.Trees...) {
		stale = append(stale, redisPrefix+string(k))
	}
	for _, p := range patterns {
		iter := r.client.Scan(ctx, 0, p, 100).Iterator()
		for iter.Next(ctx) {
			stale = append(stale, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to scan cache: %w", err)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, stale...).Err(); err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
