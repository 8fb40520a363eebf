package database

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isows-india/worklicense-backend/internal/models"
)

type flakyStore struct {
	records []models.Work
	fail    bool
	saves   int
}

func (s *flakyStore) Name() string { return "flaky" }

func (s *flakyStore) Load() ([]models.Work, error) { return s.records, nil }

func (s *flakyStore) SaveAll(records []models.Work) error {
	s.saves++
	if s.fail {
		return errors.New("disk full")
	}
	s.records = append([]models.Work(nil), records...)
	return nil
}

func TestCollectionMutatePersists(t *testing.T) {
	store := &flakyStore{}
	c, err := OpenCollection[models.Work](store)
	require.NoError(t, err)

	id := uuid.New()
	err = c.Mutate(func(records []models.Work) ([]models.Work, error) {
		return append(records, models.Work{ID: id, OwnerID: "alice"}), nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())
	assert.Len(t, store.records, 1)

	found, ok := c.Find(func(w models.Work) bool { return w.ID == id })
	assert.True(t, ok)
	assert.Equal(t, "alice", found.OwnerID)
}

func TestCollectionMutateErrorLeavesStateUntouched(t *testing.T) {
	store := &flakyStore{records: []models.Work{{ID: uuid.New(), Title: "before"}}}
	c, err := OpenCollection[models.Work](store)
	require.NoError(t, err)

	boom := errors.New("rejected")
	err = c.Mutate(func(records []models.Work) ([]models.Work, error) {
		records[0].Title = "after"
		return records, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "before", c.Snapshot()[0].Title)
	assert.Equal(t, 0, store.saves)
}

func TestCollectionFlushFailureKeepsMemory(t *testing.T) {
	store := &flakyStore{fail: true}
	c, err := OpenCollection[models.Work](store)
	require.NoError(t, err)

	err = c.Mutate(func(records []models.Work) ([]models.Work, error) {
		return append(records, models.Work{ID: uuid.New()}), nil
	})

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "flaky", perr.Collection)
	assert.Equal(t, 1, c.Len())
}

func TestCollectionSnapshotIsACopy(t *testing.T) {
	c, err := OpenCollection[models.Work](&flakyStore{records: []models.Work{{ID: uuid.New(), Title: "kept"}}})
	require.NoError(t, err)

	snap := c.Snapshot()
	snap[0].Title = "changed"

	assert.Equal(t, "kept", c.Snapshot()[0].Title)
}
