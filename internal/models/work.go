// internal/models/work.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Work struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	OwnerID         string     `json:"owner_id" gorm:"type:varchar(128);not null;index"`
	Title           string     `json:"title" gorm:"type:varchar(255);not null"`
	Content         string     `json:"content" gorm:"type:text;not null"`
	SubmittedAt     time.Time  `json:"submitted_at" gorm:"not null"`
	UpdatedAt       time.Time  `json:"updated_at"`
	IsLicensed      bool       `json:"is_licensed" gorm:"default:false;index"`
	LicenseID       *uuid.UUID `json:"license_id,omitempty" gorm:"type:uuid;uniqueIndex"`
	PlagiarismScore int        `json:"plagiarism_score" gorm:"default:0"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

func (w Work) RecordID() uuid.UUID { return w.ID }

func (w Work) Status() WorkStatus {
	if w.IsLicensed {
		return WorkStatusLicensed
	}
	return WorkStatusSubmitted
}

func (w Work) IsDeleted() bool {
	return w.DeletedAt != nil
}

// WorkRevision is an immutable snapshot of a work's title and content taken
// after an update.
type WorkRevision struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	WorkID    uuid.UUID `json:"work_id" gorm:"type:uuid;not null;index"`
	OwnerID   string    `json:"owner_id" gorm:"type:varchar(128);not null;index"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;index"`
}

func (r WorkRevision) RecordID() uuid.UUID { return r.ID }

// WorkPatch lists the fields an update may change. Nil means "leave as is".
type WorkPatch struct {
	Title      *string
	Content    *string
	IsLicensed *bool
	LicenseID  *uuid.UUID
}

func (p WorkPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.IsLicensed == nil && p.LicenseID == nil
}

// Public view of a work shown on the verification page.
type PublicWork struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	SubmittedAt time.Time  `json:"submitted_at"`
	IsLicensed  bool       `json:"is_licensed"`
	Status      WorkStatus `json:"status"`
}

func (w Work) Public() PublicWork {
	return PublicWork{
		ID:          w.ID,
		Title:       w.Title,
		SubmittedAt: w.SubmittedAt,
		IsLicensed:  w.IsLicensed,
		Status:      w.Status(),
	}
}

func (Work) TableName() string         { return "works" }
func (WorkRevision) TableName() string { return "work_revisions" }
