// Package kv provides the key-value byte stores that hold board snapshots.
// Each backend stores opaque values under string keys; the persistence layer
// decides what the bytes mean.
package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mesh-intelligence/casekanban/pkg/types"
)

// Store errors.
var (
	ErrNotFound   = errors.New("key not found")
	ErrInvalidKey = errors.New("invalid key")
	ErrClosed     = errors.New("store is closed")
)

// Store reads and writes whole values under string keys.
type Store interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if nothing is stored there.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases backend resources. Idempotent.
	Close() error
}

// Open creates the store described by cfg. The data directory is created
// for the file and sqlite backends when missing.
func Open(ctx context.Context, cfg types.Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}

	switch cfg.Backend {
	case types.BackendMemory:
		return NewMemory(), nil
	case types.BackendFile:
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return NewFile(dataDir), nil
	case types.BackendSQLite:
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return OpenSQLite(ctx, dataDir)
	case types.BackendRedis:
		return OpenRedis(ctx, cfg.RedisURL)
	default:
		return nil, types.ErrBackendUnknown
	}
}

// checkKey rejects keys that are empty or could escape a directory.
func checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
