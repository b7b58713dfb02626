package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// CollectionKey returns the Redis key holding a collection.
// Pattern: shelf:{instance_name}:{collection}
func CollectionKey(instanceName, collection string) string {
	return fmt.Sprintf("shelf:%s:%s", instanceName, collection)
}

// RedisBackend stores a collection as one JSON string value in Redis.
// Keys are namespaced by instance name so several libraries can share a server.
type RedisBackend struct {
	rdb *redis.Client
	key string
}

// NewRedisBackend returns a backend for collection in the given instance.
// The client is shared and not closed by the backend.
func NewRedisBackend(rdb *redis.Client, instanceName, collection string) (*RedisBackend, error) {
	if instanceName == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}
	if collection == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}
	return &RedisBackend{rdb: rdb, key: CollectionKey(instanceName, collection)}, nil
}

// Key returns the Redis key used by the backend.
func (b *RedisBackend) Key() string {
	return b.key
}

// Location implements Backend.
func (b *RedisBackend) Location() string {
	return "redis://" + b.rdb.Options().Addr + "/" + b.key
}

// Read implements Backend.
func (b *RedisBackend) Read(ctx context.Context) ([]byte, error) {
	data, err := b.rdb.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write implements Backend. SET replaces the value atomically.
func (b *RedisBackend) Write(ctx context.Context, data []byte) error {
	return b.rdb.Set(ctx, b.key, data, 0).Err()
}
