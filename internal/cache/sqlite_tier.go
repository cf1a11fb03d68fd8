package cache

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// cacheEntry is the KV row backing the general-purpose tier.
type cacheEntry struct {
	Key       string `gorm:"primaryKey;type:varchar(255)"`
	Value     []byte
	UpdatedAt time.Time
}

func (cacheEntry) TableName() string { return "cache_entries" }

// SQLiteTier is the general-purpose cache tier: a single KV table in a local
// SQLite database. It is the fallback when the secure tier is unavailable.
type SQLiteTier struct {
	db *gorm.DB
}

// NewSQLiteTier opens (or creates) the database at path and migrates the KV
// table. path may be any SQLite DSN, including in-memory DSNs for tests.
func NewSQLiteTier(path string) (*SQLiteTier, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.AutoMigrate(&cacheEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}
	return &SQLiteTier{db: db}, nil
}

func (t *SQLiteTier) Name() string { return "sqlite" }

func (t *SQLiteTier) Get(key string) ([]byte, error) {
	var entry cacheEntry
	if err := t.db.First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	return entry.Value, nil
}

func (t *SQLiteTier) Set(key string, value []byte) error {
	entry := cacheEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	return nil
}

func (t *SQLiteTier) Remove(key string) error {
	if err := t.db.Delete(&cacheEntry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to remove cache entry %s: %w", key, err)
	}
	return nil
}
