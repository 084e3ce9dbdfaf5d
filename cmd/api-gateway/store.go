package main

import (
	"context"
	"fmt"

	"github.com/noah-isme/science-hub-api/internal/repository"
	"github.com/noah-isme/science-hub-api/pkg/cache"
	"github.com/noah-isme/science-hub-api/pkg/config"
	"github.com/noah-isme/science-hub-api/pkg/database"
	"github.com/noah-isme/science-hub-api/pkg/storage"
)

// openRecordStore builds the backend selected by STORE_DRIVER. The returned
// func releases its connections.
func openRecordStore(ctx context.Context, cfg *config.Config) (repository.RecordStore, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return repository.NewMemoryRecordStore(), noop, nil
	case config.StoreDriverFile, "":
		files, err := storage.NewLocalStorage(cfg.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewFileRecordStore(files), noop, nil
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisRecordStore(client, cfg.Store.KeyPrefix), func() { _ = client.Close() }, nil
	case config.StoreDriverPostgres, config.StoreDriverMySQL:
		open, dialect := database.NewPostgres, repository.DialectPostgres
		if cfg.Store.Driver == config.StoreDriverMySQL {
			open, dialect = database.NewMySQL, repository.DialectMySQL
		}
		db, err := open(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store, err := repository.NewSQLRecordStore(db, dialect)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
