package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the entry list as a single JSON value in Redis.
// Like the file store it replaces the whole snapshot on every save, so
// restore semantics are identical across backends.
type RedisStore struct {
	client *redis.Client
	key    string
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL string // Redis connection URL (e.g., "redis://localhost:6379")
	Key string // key holding the snapshot (default: "translator:cache")
}

const defaultRedisKey = "translator:cache"

// NewRedisStore creates a Redis-backed store with the given configuration.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	key := cfg.Key
	if key == "" {
		key = defaultRedisKey
	}

	return &RedisStore{client: client, key: key}, nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing client.
func NewRedisStoreFromClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// Save replaces the snapshot value.
func (s *RedisStore) Save(entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding cache entries: %w", err)
	}
	return s.client.Set(context.Background(), s.key, data, 0).Err()
}

// Load reads the snapshot. A missing key is an empty set.
func (s *RedisStore) Load() ([]Entry, error) {
	data, err := s.client.Get(context.Background(), s.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding cache snapshot: %w", err)
	}
	return entries, nil
}

// Clear deletes the snapshot key.
func (s *RedisStore) Clear() error {
	return s.client.Del(context.Background(), s.key).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Verify RedisStore implements Store
var _ Store = (*RedisStore)(nil)
