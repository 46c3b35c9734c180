package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one key/value row.
type Entry struct {
	Key       string    `gorm:"primarykey;size:255"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for Entry model.
func (Entry) TableName() string {
	return "kv_entries"
}

// SQLStorage stores entries in a relational table through gorm.
type SQLStorage struct {
	db *gorm.DB
}

// NewSQLStorage migrates the entries table and returns the storage. The
// storage owns db: it is closed by Close, or here if migration fails.
func NewSQLStorage(db *gorm.DB) (*SQLStorage, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to migrate kv_entries: %w", err)
	}
	return &SQLStorage{db: db}, nil
}

func (s *SQLStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var entry Entry
	if err := s.db.WithContext(ctx).Where(map[string]any{"key": key}).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set upserts the entry.
func (s *SQLStorage) Set(ctx context.Context, key, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *SQLStorage) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where(map[string]any{"key": key}).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

func (s *SQLStorage) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
