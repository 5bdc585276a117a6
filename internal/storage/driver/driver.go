// Package driver opens the storage backend selected by STORAGE_DRIVER.
package driver

import (
	"context"
	"fmt"
	"log"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/game"
	"github.com/keshon/dea-bot/internal/storage"
	"github.com/keshon/dea-bot/internal/storage/sqlstore"
)

// Backend is what the binaries need from a storage driver.
type Backend interface {
	game.Store
	storage.Sweeper
	Close() error
}

var (
	_ Backend = (*storage.Storage)(nil)
	_ Backend = (*sqlstore.Store)(nil)
)

// Open opens the configured backend. The datastore flushes in the background
// until ctx is done or the backend is closed.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		log.Printf("[INFO] Using SQLite storage at %s", cfg.SQLitePath)
		s, err := sqlstore.Open(cfg.SQLitePath,
			sqlstore.WithDefaultPrefix(cfg.DefaultPrefix),
			sqlstore.WithHistoryLimit(cfg.HistoryLimit))
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverDatastore:
		log.Printf("[INFO] Using datastore at %s", cfg.StoragePath)
		s, err := storage.New(ctx, cfg.StoragePath,
			storage.WithDefaultPrefix(cfg.DefaultPrefix),
			storage.WithHistoryLimit(cfg.HistoryLimit),
			storage.WithSaveInterval(cfg.SaveInterval))
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
