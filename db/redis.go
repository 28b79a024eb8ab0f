package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "tixshell"

// RedisCredentialRepository keeps credentials in Redis under "tixshell:<scope>:<key>".
type RedisCredentialRepository struct {
	client *redis.Client
	scope  string
}

// NewRedisCredentialRepository creates a Redis-backed credential store bound to scope.
func NewRedisCredentialRepository(client *redis.Client, scope string) *RedisCredentialRepository {
	if scope == "" {
		scope = DefaultScope
	}
	return &RedisCredentialRepository{client: client, scope: scope}
}

// OpenRedis connects to addr and verifies the connection with PING.
func OpenRedis(ctx context.Context, addr, password string, database int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (r *RedisCredentialRepository) key(name string) string {
	return redisKeyPrefix + ":" + r.scope + ":" + name
}

func (r *RedisCredentialRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if r.client == nil {
		return "", false, fmt.Errorf("repository not initialized")
	}
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisCredentialRepository) Set(ctx context.Context, key, value string) error {
	if r.client == nil {
		return fmt.Errorf("repository not initialized")
	}
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *RedisCredentialRepository) Remove(ctx context.Context, key string) error {
	if r.client == nil {
		return fmt.Errorf("repository not initialized")
	}
	return r.client.Del(ctx, r.key(key)).Err()
}
