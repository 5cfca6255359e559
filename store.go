package goSms

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the narrow key-value capability the engine needs. Any backend that
// can honor these five primitives — single instance or partition-aware
// cluster — can be injected through [Builder.WithStore]; the engine never
// assumes transactional atomicity across keys, only per-key atomicity of
// Incr and TTL-carrying Set.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store interface {
	// Get returns the value at key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes value at key. A ttl > 0 arms auto-expiry atomically with
	// the write; ttl == 0 writes without touching expiry state.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Incr atomically increments the integer at key, creating it at 1 when
	// absent, and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire sets or refreshes the TTL on an existing key without changing
	// its value.
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// RedisStore adapts a go-redis client to [Store]. A redis.UniversalClient is
// accepted so callers choose between a single node and a cluster purely by
// how they construct the client.
//
// RedisStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// NewRedisStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Incr describes the incr operation and its observable behavior.
//
// Incr may return an error when input validation, dependency calls, or security checks fail.
// Incr does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

// Expire describes the expire operation and its observable behavior.
//
// Expire may return an error when input validation, dependency calls, or security checks fail.
// Expire does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Expire(ctx, key, ttl).Err()
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
