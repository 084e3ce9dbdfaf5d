package repository

import (
	"context"
	"errors"

	"github.com/noah-isme/science-hub-api/pkg/storage"
)

// FileRecordStore persists each key as a JSON file on local disk.
type FileRecordStore struct {
	files *storage.LocalStorage
}

// NewFileRecordStore wraps a local storage directory.
func NewFileRecordStore(files *storage.LocalStorage) *FileRecordStore {
	return &FileRecordStore{files: files}
}

func fileName(key Key) string {
	return string(key) + ".json"
}

func (s *FileRecordStore) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	raw, err := s.files.Read(fileName(key))
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

func (s *FileRecordStore) Set(ctx context.Context, key Key, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.files.Save(fileName(key), raw)
}

func (s *FileRecordStore) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.files.Delete(fileName(key))
}
