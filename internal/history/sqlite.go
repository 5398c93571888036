package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type historyBlob struct {
	Name      string `gorm:"primaryKey;size:191"`
	Value     []byte
	UpdatedAt time.Time
}

func (historyBlob) TableName() string { return "history_blobs" }

// SQLiteMedium keeps history blobs in a local SQLite database through gorm.
type SQLiteMedium struct {
	db *gorm.DB
}

func NewSQLiteMedium(path string) (*SQLiteMedium, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&historyBlob{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
	}

	return &SQLiteMedium{db: db}, nil
}

func (m *SQLiteMedium) Load(ctx context.Context, key string) ([]byte, error) {
	var row historyBlob
	err := m.db.WithContext(ctx).Where("name = ?", key).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("failed to load history blob: %w", err)
	}
	return row.Value, nil
}

func (m *SQLiteMedium) Save(ctx context.Context, key string, data []byte) error {
	row := historyBlob{Name: key, Value: data, UpdatedAt: time.Now().UTC()}
	err := m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save history blob: %w", err)
	}
	return nil
}

func (m *SQLiteMedium) Remove(ctx context.Context, key string) error {
	if err := m.db.WithContext(ctx).Where("name = ?", key).Delete(&historyBlob{}).Error; err != nil {
		return fmt.Errorf("failed to remove history blob: %w", err)
	}
	return nil
}

func (m *SQLiteMedium) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
