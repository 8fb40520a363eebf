// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Record is implemented by every persisted collection element.
type Record interface {
	RecordID() uuid.UUID
}

type WorkStatus string

const (
	WorkStatusSubmitted WorkStatus = "submitted"
	WorkStatusLicensed  WorkStatus = "licensed"
)

// Timestamps are stored in UTC with microsecond precision so that values
// survive a round trip through postgres unchanged.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
