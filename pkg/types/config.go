package types

import (
	"errors"
	"strings"
)

// Config selects the key-value backend that holds the board snapshot.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	Key      string `json:"key" yaml:"key"`
	RedisURL string `json:"redis_url" yaml:"redis_url"`
}

// Supported backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// DefaultKey is the snapshot key when Config.Key is empty.
const DefaultKey = "cards"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrRedisURLEmpty  = errors.New("redis backend requires redis_url")
	ErrKeyInvalid     = errors.New("key must not contain path separators")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendFile:   true,
	BackendSQLite: true,
	BackendRedis:  true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendRedis && c.RedisURL == "" {
		return ErrRedisURLEmpty
	}
	if strings.ContainsAny(c.Key, `/\`) {
		return ErrKeyInvalid
	}
	return nil
}

// SnapshotKey returns Key, or DefaultKey when Key is empty.
func (c Config) SnapshotKey() string {
	if c.Key == "" {
		return DefaultKey
	}
	return c.Key
}
