package storage

import (
	"context"
	"fmt"
	"log/slog"

	"taskshare/internal/storage/memory"
	"taskshare/internal/storage/redis"
	"taskshare/internal/storage/sqlite"
)

// Backend is a Store that owns resources.
type Backend interface {
	Store
	Close() error
}

// BackendType selects the Backend implementation.
type BackendType string

const (
	BackendSQLite BackendType = "sqlite"
	BackendRedis  BackendType = "redis"
	BackendMemory BackendType = "memory"
)

// Config describes which backend to open and how.
type Config struct {
	Type        BackendType
	SQLitePath  string
	RedisAddr   string
	RedisPrefix string
}

// Open creates the backend described by cfg.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Backend, error) {
	switch cfg.Type {
	case BackendSQLite, "":
		return sqlite.Open(cfg.SQLitePath, logger)
	case BackendRedis:
		return redis.Open(ctx, cfg.RedisAddr, cfg.RedisPrefix, logger)
	case BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
