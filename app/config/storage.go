package config

import (
	"context"
	"fmt"

	"task-tracker/app/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenStorage connects the backend named by cfg.Storage.
func OpenStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	switch cfg.Storage {
	case StorageMemory:
		return storage.NewMemoryStorage(), nil

	case StorageRedis:
		store := storage.NewRedisStorage(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		if err := store.Ping(ctx); err != nil {
			store.Close(ctx)
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, nil

	case StorageSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return storage.NewSQLStorage(db)

	case StorageNeo4j:
		driver, err := InitNeo4j(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewNeo4jStorage(driver), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, cfg.Storage)
}
