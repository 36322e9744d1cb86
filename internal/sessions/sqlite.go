package sessions

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// StoredValue is one persisted key, scoped by backend host.
type StoredValue struct {
	Namespace string `gorm:"primaryKey"`
	Key       string `gorm:"primaryKey;column:name"`
	Value     string
	UpdatedAt time.Time
}

func (StoredValue) TableName() string {
	return "client_values"
}

// SQLiteStore persists values in a sqlite database through gorm.
type SQLiteStore struct {
	db        *gorm.DB
	namespace string
}

func NewSQLiteStore(path string, namespace string) (*SQLiteStore, error) {

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&StoredValue{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{
		db:        db,
		namespace: sanitizeName(namespace),
	}, nil
}

func (s *SQLiteStore) Get(key string) (string, error) {
	var value StoredValue

	err := s.db.Where("namespace = ? AND name = ?", s.namespace, key).First(&value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	} else if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}

	return value.Value, nil
}

func (s *SQLiteStore) Set(key string, value string) error {
	record := StoredValue{
		Namespace: s.namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error

	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Remove(key string) error {
	err := s.db.Where("namespace = ? AND name = ?", s.namespace, key).Delete(&StoredValue{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
