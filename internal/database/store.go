// internal/database/store.go
package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/isows-india/worklicense-backend/internal/models"
)

// Store loads and saves a whole collection at once.
type Store[T models.Record] interface {
	Name() string
	Load() ([]T, error)
	SaveAll(records []T) error
}

// FileStore keeps a collection as a single JSON array on disk. Writes go to a
// temporary file in the same directory which is then renamed over the target.
type FileStore[T models.Record] struct {
	name string
	path string
}

func NewFileStore[T models.Record](dir, name string) *FileStore[T] {
	return &FileStore[T]{
		name: name,
		path: filepath.Join(dir, name+".json"),
	}
}

func (s *FileStore[T]) Name() string { return s.name }

func (s *FileStore[T]) Path() string { return s.path }

func (s *FileStore[T]) Load() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	if len(data) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (s *FileStore[T]) SaveAll(records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.name, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+s.name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// GormStore keeps a collection in a database table and rewrites the table in
// a single transaction on every save.
type GormStore[T models.Record] struct {
	name string
	db   *gorm.DB
}

func NewGormStore[T models.Record](db *gorm.DB, name string) *GormStore[T] {
	return &GormStore[T]{name: name, db: db}
}

func (s *GormStore[T]) Name() string { return s.name }

func (s *GormStore[T]) Load() ([]T, error) {
	var records []T
	if err := s.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.name, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (s *GormStore[T]) SaveAll(records []T) error {
	return WithTransaction(s.db, func(tx *gorm.DB) error {
		var zero T
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&zero).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", s.name, err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, 200).Error; err != nil {
			return fmt.Errorf("failed to write %s: %w", s.name, err)
		}
		return nil
	})
}
