// internal/services/license_service.go
package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/isows-india/worklicense-backend/internal/database"
	"github.com/isows-india/worklicense-backend/internal/events"
	"github.com/isows-india/worklicense-backend/internal/models"
)

type LicenseService struct {
	licenses    *database.Collection[models.License]
	workService *WorkService
	publisher   events.Publisher
	logger      *logrus.Entry

	issueMu sync.Mutex
}

type IssueLicenseRequest struct {
	WorkID     string `json:"work_id" validate:"required,uuid"`
	AuthorName string `json:"author_name" validate:"required,notblank,max=255"`
	DOB        string `json:"dob" validate:"required,notblank,max=32"`
	Address    string `json:"address" validate:"required,notblank,max=1000"`
	Mobile     string `json:"mobile" validate:"required,notblank,max=32"`
	WorkType   string `json:"work_type" validate:"required,notblank,max=64"`
}

func (r *IssueLicenseRequest) Metadata() models.LicenseMetadata {
	return models.LicenseMetadata{
		AuthorName: strings.TrimSpace(r.AuthorName),
		DOB:        strings.TrimSpace(r.DOB),
		Address:    strings.TrimSpace(r.Address),
		Mobile:     strings.TrimSpace(r.Mobile),
		WorkType:   strings.TrimSpace(r.WorkType),
	}
}

// Verification is what anyone holding a license id may see.
type Verification struct {
	License models.PublicLicense `json:"license"`
	Work    models.PublicWork    `json:"work"`
}

func NewLicenseService(repos *database.Repositories, workService *WorkService, publisher events.Publisher) *LicenseService {
	return &LicenseService{
		licenses:    repos.Licenses,
		workService: workService,
		publisher:   publisher,
		logger:      logrus.WithField("service", "licenses"),
	}
}

// IssueLicense creates the license of a work, or returns the existing one
// unchanged. The work is flagged licensed before the call returns; if that
// fails for any reason other than a flush failure the new license is removed
// again.
func (s *LicenseService) IssueLicense(workID uuid.UUID, identity *models.Identity, metadata models.LicenseMetadata) (*models.License, error) {
	s.issueMu.Lock()
	defer s.issueMu.Unlock()

	work, err := s.workService.GetWork(workID, identity.ID)
	if err != nil {
		return nil, err
	}

	if existing, ok := s.licenses.Find(func(l models.License) bool { return l.WorkID == workID }); ok {
		return &existing, nil
	}

	license := models.License{
		ID:              uuid.New(),
		WorkID:          workID,
		OwnerID:         identity.ID,
		IssuedAt:        models.Now(),
		IsActive:        true,
		LicenseMetadata: metadata,
	}

	err = s.licenses.Mutate(func(records []models.License) ([]models.License, error) {
		return append(records, license), nil
	})
	if err != nil {
		if IsPersistenceError(err) {
			// never flag a work against a license that may not survive a restart
			s.rollback(license.ID)
		}
		return nil, fmt.Errorf("failed to create license: %w", err)
	}

	licensed := true
	_, err = s.workService.UpdateWork(workID, models.WorkPatch{
		IsLicensed: &licensed,
		LicenseID:  &license.ID,
	})
	if err != nil {
		if IsPersistenceError(err) {
			s.logger.WithError(err).WithField("license_id", license.ID).Error("Work flagged in memory only")
			return &license, err
		}
		s.rollback(license.ID)
		return nil, fmt.Errorf("failed to flag work as licensed: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"license_id": license.ID,
		"work_id":    workID,
		"owner_id":   identity.ID,
	}).Info("License issued")

	if s.publisher != nil {
		s.publisher.Publish(events.LicenseIssued{
			Email:     identity.Email,
			WorkTitle: work.Title,
			License:   license,
		})
	}

	return &license, nil
}

func (s *LicenseService) rollback(id uuid.UUID) {
	err := s.licenses.Mutate(func(records []models.License) ([]models.License, error) {
		out := records[:0]
		for _, l := range records {
			if l.ID != id {
				out = append(out, l)
			}
		}
		return out, nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("license_id", id).Error("Failed to roll back license")
	}
}

// GetUserLicenses returns the owner's licenses, newest first.
func (s *LicenseService) GetUserLicenses(ownerID string) ([]models.License, error) {
	licenses := s.licenses.Filter(func(l models.License) bool {
		return l.OwnerID == ownerID
	})
	sort.SliceStable(licenses, func(i, j int) bool {
		return licenses[i].IssuedAt.After(licenses[j].IssuedAt)
	})
	return licenses, nil
}

// GetLicense is the owner's full view of a license.
func (s *LicenseService) GetLicense(id uuid.UUID, ownerID string) (*models.License, error) {
	license, ok := s.licenses.Find(func(l models.License) bool { return l.ID == id })
	if !ok || license.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return &license, nil
}

func (s *LicenseService) VerifyLicense(id uuid.UUID) (*models.License, error) {
	license, ok := s.licenses.Find(func(l models.License) bool { return l.ID == id })
	if !ok {
		return nil, ErrNotFound
	}
	return &license, nil
}

// Verify builds the public projection of a license and its work.
func (s *LicenseService) Verify(id uuid.UUID) (*Verification, error) {
	license, err := s.VerifyLicense(id)
	if err != nil {
		return nil, err
	}

	work, err := s.workService.GetWork(license.WorkID, license.OwnerID)
	if err != nil {
		return nil, err
	}

	return &Verification{
		License: license.Public(),
		Work:    work.Public(),
	}, nil
}

func (s *LicenseService) AttachDownloadURL(id uuid.UUID, url string) (*models.License, error) {
	var updated models.License
	err := s.licenses.Mutate(func(records []models.License) ([]models.License, error) {
		for i := range records {
			if records[i].ID == id {
				records[i].DownloadURL = url
				updated = records[i]
				return records, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		if IsPersistenceError(err) {
			return &updated, fmt.Errorf("failed to attach download url: %w", err)
		}
		return nil, err
	}
	return &updated, nil
}
