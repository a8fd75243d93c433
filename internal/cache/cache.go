// Package cache holds small JSON payloads fetched from slow upstreams.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/diagnosis/tourvisto-admin/pkg/config"
)

var ErrMiss = errors.New("cache miss")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Incr bumps the counter at key and starts its window on first use.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	return incrWindow(ctx, s.client, key, window)
}

type windowCmds interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// incrWindow uses plain EXPIRE on the first hit so it works on any Redis
// version. If that EXPIRE fails the key is dropped, so the next hit opens a
// fresh window instead of counting forever.
func incrWindow(ctx context.Context, c windowCmds, key string, window time.Duration) (int64, error) {
	n, err := c.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.Expire(ctx, key, window).Err(); err != nil {
			_ = c.Del(ctx, key).Err()
			return 0, fmt.Errorf("set window on %s: %w", key, err)
		}
	}
	return n, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// NoopStore always misses. Used when Redis is unreachable at startup.
type NoopStore struct{}

func (NoopStore) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (NoopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Incr never counts, so nothing is ever throttled without Redis.
func (NoopStore) Incr(context.Context, string, time.Duration) (int64, error) { return 0, nil }

var (
	_ Store = (*RedisStore)(nil)
	_ Store = NoopStore{}
)
