package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

// Key names a persisted collection.
type Key string

// Stable collection keys, shared with the browser storage layout.
const (
	KeyTeachers       Key = "scienceHub_teachers"
	KeyCurrentTeacher Key = "scienceHub_currentTeacher"
	KeyVerifications  Key = "scienceHub_verifications"
	KeyUploads        Key = "scienceHub_uploads"
	KeyPendingUploads Key = "scienceHub_pendingUploads"
	KeySubmissions    Key = "scienceHub_submissions"
	KeyHistory        Key = "scienceHubHistory"
	KeyNotifications  Key = "scienceHub_notifications"
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("record not found")

// RecordStore is the key-value layer every repository persists through.
type RecordStore interface {
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	Set(ctx context.Context, key Key, raw []byte) error
	Delete(ctx context.Context, key Key) error
}

func corrupt(key Key, err error) error {
	return appErrors.Wrap(err, appErrors.ErrStorageCorrupt.Code, http.StatusInternalServerError, fmt.Sprintf("stored %s is corrupt", key))
}

// Collection reads and writes a JSON array under one key.
type Collection[T any] struct {
	store RecordStore
	key   Key
}

// NewCollection binds a typed collection to a key.
func NewCollection[T any](store RecordStore, key Key) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

// All returns the stored items, or an empty slice when the key is absent.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.key, err)
	}
	items := []T{}
	if !found || len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, corrupt(c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the stored array.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

// Clear removes the key altogether.
func (c *Collection[T]) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("delete %s: %w", c.key, err)
	}
	return nil
}

// Snapshot reads and writes a single JSON object under one key.
type Snapshot[T any] struct {
	store RecordStore
	key   Key
}

// NewSnapshot binds a typed snapshot to a key.
func NewSnapshot[T any](store RecordStore, key Key) *Snapshot[T] {
	return &Snapshot[T]{store: store, key: key}
}

// Load returns the stored value, or nil when absent.
func (s *Snapshot[T]) Load(ctx context.Context) (*T, error) {
	raw, found, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}
	if !found || len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, corrupt(s.key, err)
	}
	return &value, nil
}

// Store replaces the stored value.
func (s *Snapshot[T]) Store(ctx context.Context, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.store.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("write %s: %w", s.key, err)
	}
	return nil
}

// Clear removes the stored value.
func (s *Snapshot[T]) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete %s: %w", s.key, err)
	}
	return nil
}
