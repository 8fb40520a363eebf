package services

import (
	"errors"
	"sync/atomic"

	"github.com/isows-india/worklicense-backend/internal/database"
	"github.com/isows-india/worklicense-backend/internal/models"
)

var errDiskFull = errors.New("disk full")

// switchableStore fails every SaveAll while fail is set.
type switchableStore[T models.Record] struct {
	database.Store[T]
	fail atomic.Bool
}

func (s *switchableStore[T]) SaveAll(records []T) error {
	if s.fail.Load() {
		return errDiskFull
	}
	return s.Store.SaveAll(records)
}

type switchableStores struct {
	works     *switchableStore[models.Work]
	revisions *switchableStore[models.WorkRevision]
	licenses  *switchableStore[models.License]
}

// useSwitchableStores rebuilds the services on top of stores whose writes
// can be made to fail.
func (suite *ServiceTestSuite) useSwitchableStores() *switchableStores {
	stores := &switchableStores{
		works:     &switchableStore[models.Work]{Store: database.NewFileStore[models.Work](suite.dir, database.CollectionWorks)},
		revisions: &switchableStore[models.WorkRevision]{Store: database.NewFileStore[models.WorkRevision](suite.dir, database.CollectionRevisions)},
		licenses:  &switchableStore[models.License]{Store: database.NewFileStore[models.License](suite.dir, database.CollectionLicenses)},
	}

	repos, err := database.NewRepositories(stores.works, stores.revisions, stores.licenses)
	suite.Require().NoError(err)
	suite.repos = repos
	suite.works = NewWorkService(repos, newTestEngine(suite.cfg), suite.publisher, suite.cfg)
	suite.licenses = NewLicenseService(repos, suite.works, suite.publisher)
	return stores
}

func (suite *ServiceTestSuite) TestIssueLicenseRollsBackOnLicenseFlushFailure() {
	stores := suite.useSwitchableStores()
	work := suite.submit("alice", "Poem A", poemA)

	stores.licenses.fail.Store(true)
	license, err := suite.licenses.IssueLicense(work.ID, suite.alice, suite.metadata())
	suite.Require().Error(err)
	suite.Nil(license)
	suite.True(IsPersistenceError(err))
	suite.ErrorIs(err, errDiskFull)

	suite.Empty(suite.repos.Licenses.Snapshot())
	got, err := suite.works.GetWork(work.ID, "alice")
	suite.Require().NoError(err)
	suite.False(got.IsLicensed)
	suite.Nil(got.LicenseID)
	suite.Empty(suite.publisher.all())

	// a later attempt succeeds once the store recovers
	stores.licenses.fail.Store(false)
	license, err = suite.licenses.IssueLicense(work.ID, suite.alice, suite.metadata())
	suite.Require().NoError(err)
	suite.Len(suite.repos.Licenses.Snapshot(), 1)

	got, err = suite.works.GetWork(work.ID, "alice")
	suite.Require().NoError(err)
	suite.True(got.IsLicensed)
	suite.Equal(license.ID, *got.LicenseID)
}

func (suite *ServiceTestSuite) TestIssueLicenseKeepsLicenseOnWorkFlushFailure() {
	stores := suite.useSwitchableStores()
	work := suite.submit("alice", "Poem A", poemA)

	stores.works.fail.Store(true)
	license, err := suite.licenses.IssueLicense(work.ID, suite.alice, suite.metadata())
	suite.Require().Error(err)
	suite.True(IsPersistenceError(err))
	suite.Require().NotNil(license)

	licenses := suite.repos.Licenses.Snapshot()
	suite.Require().Len(licenses, 1)
	suite.Equal(license.ID, licenses[0].ID)

	got, err := suite.works.GetWork(work.ID, "alice")
	suite.Require().NoError(err)
	suite.True(got.IsLicensed)
	suite.Require().NotNil(got.LicenseID)
	suite.Equal(license.ID, *got.LicenseID)

	stores.works.fail.Store(false)
	again, err := suite.licenses.IssueLicense(work.ID, suite.alice, suite.metadata())
	suite.Require().NoError(err)
	suite.Equal(license.ID, again.ID)
	suite.Len(suite.repos.Licenses.Snapshot(), 1)
}

func (suite *ServiceTestSuite) TestUpdateWorkFlushFailureStillRecordsRevision() {
	stores := suite.useSwitchableStores()
	work := suite.submit("alice", "Poem A", poemA)

	stores.works.fail.Store(true)
	title := "Poem A (revised)"
	updated, err := suite.works.UpdateWork(work.ID, models.WorkPatch{Title: &title})
	suite.Require().Error(err)
	suite.True(IsPersistenceError(err))
	suite.Require().NotNil(updated)
	suite.Equal(title, updated.Title)

	got, err := suite.works.GetWork(work.ID, "alice")
	suite.Require().NoError(err)
	suite.Equal(title, got.Title)

	revisions, err := suite.works.GetRevisions(work.ID, "alice")
	suite.Require().NoError(err)
	suite.Require().Len(revisions, 1)
	suite.Equal(title, revisions[0].Title)
	suite.Equal(updated.UpdatedAt, revisions[0].UpdatedAt)
}
