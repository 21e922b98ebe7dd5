package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list holding saved recipes.
const DefaultRedisKey = "chefvoice:saved_recipes"

// RedisStore keeps recipes in one Redis list. RPUSH is atomic, so
// concurrent appends from any number of processes are never lost.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(ctx context.Context, redisURL, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, readFailed(fmt.Errorf("failed to parse Redis URL: %w", err))
	}

	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		slog.Warn("Failed to instrument Redis client", "error", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, readFailed(fmt.Errorf("failed to connect to Redis: %w", err))
	}

	return newRedisStore(client, key), nil
}

func newRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) ReadAll(ctx context.Context) ([]string, error) {
	recipes, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, readFailed(err)
	}
	if recipes == nil {
		recipes = []string{}
	}
	return recipes, nil
}

func (s *RedisStore) Append(ctx context.Context, recipe string) error {
	if err := s.client.RPush(ctx, s.key, recipe).Err(); err != nil {
		return writeFailed(err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
