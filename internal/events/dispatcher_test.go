package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isows-india/worklicense-backend/internal/models"
)

type recordingNotifier struct {
	mu      sync.Mutex
	flagged []WorkFlagged
	issued  []LicenseIssued
	err     error
}

func (n *recordingNotifier) NotifyPlagiarismFlagged(_ context.Context, e WorkFlagged) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.flagged = append(n.flagged, e)
	return n.err
}

func (n *recordingNotifier) NotifyLicenseIssued(_ context.Context, e LicenseIssued) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.issued = append(n.issued, e)
	return n.err
}

func TestDispatcherDeliversQueuedEvents(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDispatcher(notifier, 8)
	go d.Run(context.Background())

	assert.True(t, d.Publish(WorkFlagged{WorkTitle: "Essay"}))
	assert.True(t, d.Publish(LicenseIssued{WorkTitle: "Essay", License: models.License{OwnerID: "alice"}}))
	d.Close()

	require.Len(t, notifier.flagged, 1)
	require.Len(t, notifier.issued, 1)
	assert.Equal(t, "Essay", notifier.flagged[0].WorkTitle)
	assert.Equal(t, "alice", notifier.issued[0].License.OwnerID)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDispatcher(notifier, 1)

	assert.True(t, d.Publish(WorkFlagged{WorkTitle: "first"}))
	assert.False(t, d.Publish(WorkFlagged{WorkTitle: "second"}))

	go d.Run(context.Background())
	d.Close()

	require.Len(t, notifier.flagged, 1)
	assert.Equal(t, "first", notifier.flagged[0].WorkTitle)
}

func TestDispatcherSwallowsNotifierErrors(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	d := NewDispatcher(notifier, 4)
	go d.Run(context.Background())

	assert.True(t, d.Publish(LicenseIssued{WorkTitle: "a"}))
	assert.True(t, d.Publish(LicenseIssued{WorkTitle: "b"}))
	d.Close()

	assert.Len(t, notifier.issued, 2)
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := NewDispatcher(&recordingNotifier{}, 4)
	go d.Run(context.Background())
	d.Close()

	assert.False(t, d.Publish(WorkFlagged{}))
}
