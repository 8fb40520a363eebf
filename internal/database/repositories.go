// internal/database/repositories.go
package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/isows-india/worklicense-backend/internal/config"
	"github.com/isows-india/worklicense-backend/internal/models"
)

const (
	CollectionWorks     = "works"
	CollectionRevisions = "work_revisions"
	CollectionLicenses  = "licenses"
)

type Repositories struct {
	Works     *Collection[models.Work]
	Revisions *Collection[models.WorkRevision]
	Licenses  *Collection[models.License]

	db *gorm.DB
}

// Open loads the three collections from the configured storage driver.
func Open(cfg *config.Config) (*Repositories, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := Initialize(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(db); err != nil {
			Close(db)
			return nil, err
		}
		repos, err := NewRepositories(
			NewGormStore[models.Work](db, CollectionWorks),
			NewGormStore[models.WorkRevision](db, CollectionRevisions),
			NewGormStore[models.License](db, CollectionLicenses),
		)
		if err != nil {
			Close(db)
			return nil, err
		}
		repos.db = db
		return repos, nil
	case "file", "":
		return OpenFiles(cfg.Storage.DataDir)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// OpenFiles loads the collections from JSON files under dir.
func OpenFiles(dir string) (*Repositories, error) {
	return NewRepositories(
		NewFileStore[models.Work](dir, CollectionWorks),
		NewFileStore[models.WorkRevision](dir, CollectionRevisions),
		NewFileStore[models.License](dir, CollectionLicenses),
	)
}

func NewRepositories(works Store[models.Work], revisions Store[models.WorkRevision], licenses Store[models.License]) (*Repositories, error) {
	w, err := OpenCollection(works)
	if err != nil {
		return nil, err
	}
	r, err := OpenCollection(revisions)
	if err != nil {
		return nil, err
	}
	l, err := OpenCollection(licenses)
	if err != nil {
		return nil, err
	}
	return &Repositories{Works: w, Revisions: r, Licenses: l}, nil
}

func (r *Repositories) Close() {
	if r.db != nil {
		Close(r.db)
	}
}
