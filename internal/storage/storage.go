// Package storage defines the key-value adapter the domain state is persisted
// through, and the helpers that encode collections as JSON snapshots.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Keys under which each collection is stored. Every save replaces the whole value.
const (
	KeyCurrentUser     = "currentUser"
	KeyUsers           = "users"
	KeyAuthUsers       = "authUsers"
	KeyIsAuthenticated = "isAuthenticated"
	KeyGroups          = "groups"
	KeyTasks           = "tasks"
	KeyNotifications   = "notifications"
	KeyInvites         = "invites"
)

// AllKeys lists every key in a stable order.
var AllKeys = []string{
	KeyCurrentUser,
	KeyUsers,
	KeyAuthUsers,
	KeyIsAuthenticated,
	KeyGroups,
	KeyTasks,
	KeyNotifications,
	KeyInvites,
}

// Store is a synchronous, format-agnostic key-value adapter.
type Store interface {
	// Get returns the raw value for key. ok is false when nothing is stored.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
}

// Load decodes the JSON value stored under key into dst and reports whether
// a value was present. dst is left untouched when nothing is stored.
func Load(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Save encodes value as JSON and stores it under key.
func Save(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
