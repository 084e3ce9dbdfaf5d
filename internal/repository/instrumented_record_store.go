package repository

import (
	"context"
	"time"
)

// StoreObserver receives the timing of every record store call.
type StoreObserver interface {
	ObserveStoreOperation(operation, key string, duration time.Duration, err error)
}

// InstrumentedRecordStore reports store latency and failures to an observer.
type InstrumentedRecordStore struct {
	inner    RecordStore
	observer StoreObserver
}

// NewInstrumentedRecordStore wraps inner. A nil observer returns inner unchanged.
func NewInstrumentedRecordStore(inner RecordStore, observer StoreObserver) RecordStore {
	if observer == nil {
		return inner
	}
	return &InstrumentedRecordStore{inner: inner, observer: observer}
}

func (s *InstrumentedRecordStore) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	start := time.Now()
	raw, found, err := s.inner.Get(ctx, key)
	s.observer.ObserveStoreOperation("get", string(key), time.Since(start), err)
	return raw, found, err
}

func (s *InstrumentedRecordStore) Set(ctx context.Context, key Key, raw []byte) error {
	start := time.Now()
	err := s.inner.Set(ctx, key, raw)
	s.observer.ObserveStoreOperation("set", string(key), time.Since(start), err)
	return err
}

func (s *InstrumentedRecordStore) Delete(ctx context.Context, key Key) error {
	start := time.Now()
	err := s.inner.Delete(ctx, key)
	s.observer.ObserveStoreOperation("delete", string(key), time.Since(start), err)
	return err
}
