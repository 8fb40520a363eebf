// internal/events/events.go
package events

import (
	"github.com/isows-india/worklicense-backend/internal/models"
	"github.com/isows-india/worklicense-backend/internal/originality"
)

type Event interface {
	Name() string
}

// WorkFlagged is published when an originality check crosses the
// plagiarism threshold.
type WorkFlagged struct {
	Email        string
	WorkTitle    string
	WorkID       string
	Result       originality.Result
	MatchedWorks []models.Work
}

func (WorkFlagged) Name() string { return "work.flagged" }

// LicenseIssued is published once per work, when its license is created.
type LicenseIssued struct {
	Email     string
	WorkTitle string
	License   models.License
}

func (LicenseIssued) Name() string { return "license.issued" }
