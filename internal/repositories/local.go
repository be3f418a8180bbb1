package repositories

import (
	"context"
	"encoding/json"
	"io"
	"reflect"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skipify/internal/models"
)

// LocalStore loads and saves one entity sequence as a JSON array under a key.
type LocalStore[T models.Entity] struct {
	kv     KeyValueStore
	logger *log.Logger
}

// NewLocalStore wraps kv. A nil logger discards warnings.
func NewLocalStore[T models.Entity](kv KeyValueStore, logger *log.Logger) *LocalStore[T] {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LocalStore[T]{kv: kv, logger: logger}
}

// Load returns the sequence stored under key, tagged local.
//
// A missing key, a read error or a malformed value all yield an empty, non-nil slice.
func (s *LocalStore[T]) Load(ctx context.Context, key string) []T {
	items := []T{}

	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("failed to read local items", "key", key, "error", err)
		return items
	}
	if !ok || raw == "" {
		return items
	}

	var decoded []T
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.logger.Warn("discarding malformed local items", "key", key, "error", err)
		return items
	}

	for _, item := range decoded {
		if isNil(item) || item.EntityID() == "" {
			continue
		}
		item.Tag(models.SourceLocal)
		items = append(items, item)
	}
	return items
}

// Save writes items under key and reports whether the write succeeded. Failures are logged, never returned.
func (s *LocalStore[T]) Save(ctx context.Context, key string, items []T) bool {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Warn("failed to encode local items", "key", key, "error", err)
		return false
	}

	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.logger.Warn("failed to persist local items", "key", key, "count", len(items), "error", err)
		return false
	}
	return true
}

// isNil catches JSON null elements, which decode to nil pointers.
func isNil[T models.Entity](item T) bool {
	v := reflect.ValueOf(item)
	return !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil())
}
