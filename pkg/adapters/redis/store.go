// Package redis keeps the session in a Redis hash so several machines can
// share one login.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aretw0/notes/pkg/core"
)

const defaultPrefix = "notes:session"

// Config holds the connection settings for the Redis store.
type Config struct {
	Addr      string
	Password  string
	DB        int
	Namespace string // distinguishes sessions sharing one server, e.g. a user or profile name
	Prefix    string // defaults to "notes:session"
}

// Store implements core.Store with one hash per namespace.
type Store struct {
	client *redis.Client
	key    string
}

// NewStore connects to Redis and verifies the connection.
func NewStore(ctx context.Context, config Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", config.Addr, err)
	}

	return NewStoreWithClient(client, config), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *redis.Client, config Config) *Store {
	prefix := config.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	namespace := config.Namespace
	if namespace == "" {
		namespace = "default"
	}
	return &Store{
		client: client,
		key:    prefix + ":" + namespace,
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, s.key, key, value).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "redis"
}

var _ core.Store = (*Store)(nil)
