package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// RedisBackend stores entries in Redis with native key expiry. Values are
// msgpack-encoded Entry structs.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend connects to addr/db and pings once so a dead Redis shows
// up at startup instead of on the first request.
func NewRedisBackend(ctx context.Context, addr string, db int) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisBackend{client: client}, nil
}

func (r *RedisBackend) Name() string { return "redis" }

func (r *RedisBackend) Get(ctx context.Context, key string) (Entry, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get: %w", err)
	}
	var entry Entry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached entry: %w", err)
	}
	return entry, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error {
	data, err := msgpack.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisBackend) Clear(ctx context.Context) error {
	return r.client.FlushDB(ctx).Err()
}

func (r *RedisBackend) Len(ctx context.Context) (int, error) {
	n, err := r.client.DBSize(ctx).Result()
	return int(n), err
}

// Close releases the underlying connection pool.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}
