package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/skipify/internal/shared"
)

// KeyValueStore is the string-keyed persistence every backend implements.
//
// Get reports ok=false for a missing key; that is not an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var (
	_ KeyValueStore = (*SQLiteStore)(nil)
	_ KeyValueStore = (*BoltStore)(nil)
	_ KeyValueStore = (*MemoryStore)(nil)
)

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("store is closed")

// OpenStore opens the backend selected by cfg.Backend.
func OpenStore(cfg shared.StorageConfig) (KeyValueStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case shared.BackendMemory:
		return NewMemoryStore(), nil
	case shared.BackendBolt:
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		return NewBoltStore(cfg.Path)
	case shared.BackendSQLite, "":
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		return NewSQLiteStore(cfg.Path, cfg.MaxOpenConns, cfg.MaxIdleConns)
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", shared.ErrInvalidConfig, cfg.Backend)
	}
}

func ensureDir(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create storage directory: %v", shared.ErrStorage, err)
	}
	return nil
}
