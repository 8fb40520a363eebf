package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWorkPublicCarriesStatus(t *testing.T) {
	work := Work{ID: uuid.New(), Title: "Poem", Content: "secret text", SubmittedAt: Now()}

	public := work.Public()
	assert.Equal(t, WorkStatusSubmitted, public.Status)
	assert.False(t, public.IsLicensed)

	licenseID := uuid.New()
	work.IsLicensed = true
	work.LicenseID = &licenseID
	assert.Equal(t, WorkStatusLicensed, work.Public().Status)
	assert.Equal(t, work.SubmittedAt, work.Public().SubmittedAt)
}
