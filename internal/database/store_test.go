package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isows-india/worklicense-backend/internal/models"
)

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := NewFileStore[models.Work](t.TempDir(), CollectionWorks)

	works, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, works)
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore[models.Work](dir, CollectionWorks)
	licenseID := uuid.New()
	now := models.Now()

	in := []models.Work{
		{ID: uuid.New(), OwnerID: "alice", Title: "One", Content: "first", SubmittedAt: now, UpdatedAt: now},
		{ID: uuid.New(), OwnerID: "bob", Title: "Two", Content: "second", SubmittedAt: now, UpdatedAt: now, IsLicensed: true, LicenseID: &licenseID, PlagiarismScore: 12},
	}
	require.NoError(t, store.SaveAll(in))
	assert.FileExists(t, filepath.Join(dir, "works.json"))

	out, err := NewFileStore[models.Work](dir, CollectionWorks).Load()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0].ID, out[0].ID)
	assert.True(t, in[1].SubmittedAt.Equal(out[1].SubmittedAt))
	require.NotNil(t, out[1].LicenseID)
	assert.Equal(t, licenseID, *out[1].LicenseID)
	assert.Equal(t, 12, out[1].PlagiarismScore)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore[models.License](dir, CollectionLicenses)

	require.NoError(t, store.SaveAll([]models.License{{ID: uuid.New(), WorkID: uuid.New(), OwnerID: "alice", IssuedAt: time.Now()}}))
	require.NoError(t, store.SaveAll(nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "licenses.json", entries[0].Name())

	out, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "works.json"), []byte("{not json"), 0o644))

	_, err := NewFileStore[models.Work](dir, CollectionWorks).Load()
	assert.Error(t, err)
}
