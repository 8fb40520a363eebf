// internal/models/license.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type LicenseMetadata struct {
	AuthorName string `json:"author_name" gorm:"type:varchar(255)"`
	DOB        string `json:"dob" gorm:"type:varchar(32)"`
	Address    string `json:"address" gorm:"type:text"`
	Mobile     string `json:"mobile" gorm:"type:varchar(32)"`
	WorkType   string `json:"work_type" gorm:"type:varchar(64)"`
}

type License struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	WorkID      uuid.UUID `json:"work_id" gorm:"type:uuid;not null;uniqueIndex"`
	OwnerID     string    `json:"owner_id" gorm:"type:varchar(128);not null;index"`
	IssuedAt    time.Time `json:"issued_at" gorm:"not null"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	DownloadURL string    `json:"download_url,omitempty" gorm:"type:text"`

	LicenseMetadata `gorm:"embedded"`
}

func (l License) RecordID() uuid.UUID { return l.ID }

func (License) TableName() string { return "licenses" }

// PublicLicense is the projection of a license that may be shown to anyone
// holding its id.
type PublicLicense struct {
	ID         uuid.UUID `json:"id"`
	WorkID     uuid.UUID `json:"work_id"`
	IssuedAt   time.Time `json:"issued_at"`
	IsActive   bool      `json:"is_active"`
	AuthorName string    `json:"author_name"`
	WorkType   string    `json:"work_type"`
}

func (l License) Public() PublicLicense {
	return PublicLicense{
		ID:         l.ID,
		WorkID:     l.WorkID,
		IssuedAt:   l.IssuedAt,
		IsActive:   l.IsActive,
		AuthorName: l.AuthorName,
		WorkType:   l.WorkType,
	}
}
