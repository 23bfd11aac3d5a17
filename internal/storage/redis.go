package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps session tokens in Redis with a per-key TTL.
type RedisSessionStore struct {
	client *redis.Client
}

// RedisOptions is the subset of connection settings carried in config.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
	PoolSize int
}

func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (s *RedisSessionStore) SetSession(ctx context.Context, token string, ttl time.Duration) error {
	if s.client == nil {
		return errors.New("redis client is nil")
	}
	if err := s.client.Set(ctx, sessionKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("set session in redis: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) HasSession(ctx context.Context, token string) (bool, error) {
	if s.client == nil {
		return false, errors.New("redis client is nil")
	}
	_, err := s.client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get session from redis: %w", err)
	}
	return true, nil
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, token string) error {
	if s.client == nil {
		return errors.New("redis client is nil")
	}
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session from redis: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// CloseRedis closes the client if it was created.
func CloseRedis(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
