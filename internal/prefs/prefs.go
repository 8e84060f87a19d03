// Package prefs persists small string values (theme flag, search history)
// behind one key-value interface with interchangeable backends.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get for keys that were never set.
var ErrNotFound = errors.New("prefs: key not found")

// Store is a durable string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	// Path is the state file (file) or database (sqlite).
	Path string
	// RedisURL is a redis:// URL for the redis backend.
	RedisURL string
	// Namespace prefixes keys in shared backends.
	Namespace string
}

// Open builds the configured backend.
func Open(cfg Config) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendFile
	}
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		path, err := resolvePath(cfg.Path, "state.json")
		if err != nil {
			return nil, err
		}
		return NewFileStore(path), nil
	case BackendSQLite:
		path, err := resolvePath(cfg.Path, "state.db")
		if err != nil {
			return nil, err
		}
		return OpenSQLite(path)
	case BackendRedis:
		return OpenRedis(cfg.RedisURL, cfg.Namespace)
	default:
		return nil, fmt.Errorf("prefs: unknown backend %q", cfg.Backend)
	}
}

func resolvePath(path, fallbackName string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return path, nil
	}
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fallbackName), nil
}

// DefaultDir is the per-user state directory.
func DefaultDir() (string, error) {
	if dir := os.Getenv("PAPERLENS_STATE_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("prefs: resolve state dir: %w", err)
	}
	return filepath.Join(base, "paperlens"), nil
}
