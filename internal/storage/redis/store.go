// Package redis stores snapshot values as plain Redis strings under a key prefix.
package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces keys when no prefix is configured.
const DefaultPrefix = "taskshare:"

// Store wraps a Redis client.
type Store struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// Open connects to addr and verifies the connection with a PING.
func Open(ctx context.Context, addr, prefix string, logger *slog.Logger) (*Store, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty redis address")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	s := New(client, prefix, logger)
	s.logger.Debug("redis store ready", slog.String("addr", addr), slog.String("prefix", s.prefix))
	return s, nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string, logger *slog.Logger) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{client: client, prefix: prefix, logger: logger}
}

// Close releases the client connection pool.
func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	s.logger.Debug("redis store closed", slog.String("prefix", s.prefix))
	return nil
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set overwrites the value under key without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
