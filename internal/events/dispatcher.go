// internal/events/dispatcher.go
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

type Notifier interface {
	NotifyPlagiarismFlagged(ctx context.Context, event WorkFlagged) error
	NotifyLicenseIssued(ctx context.Context, event LicenseIssued) error
}

type Publisher interface {
	Publish(event Event) bool
}

// Dispatcher delivers events to a Notifier from a single goroutine. Publish
// never blocks: when the queue is full the event is dropped and logged.
type Dispatcher struct {
	notifier Notifier
	queue    chan Event
	done     chan struct{}
	logger   *logrus.Entry

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

func NewDispatcher(notifier Notifier, queueSize int) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		notifier: notifier,
		queue:    make(chan Event, queueSize),
		done:     make(chan struct{}),
		logger:   logrus.WithField("component", "events"),
	}
}

func (d *Dispatcher) Publish(event Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.WithField("event", event.Name()).Warn("Dispatcher closed, dropping event")
		return false
	}

	select {
	case d.queue <- event:
		return true
	default:
		d.logger.WithField("event", event.Name()).Warn("Event queue full, dropping event")
		return false
	}
}

// Run consumes events until Close is called and the queue is drained, or ctx
// is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-d.queue:
			if !ok {
				return
			}
			d.deliver(ctx, event)
		}
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
// Run must have been started.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	<-d.done
}

func (d *Dispatcher) deliver(ctx context.Context, event Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithField("event", event.Name()).Errorf("Notifier panicked: %v", r)
		}
	}()

	var err error
	switch e := event.(type) {
	case WorkFlagged:
		err = d.notifier.NotifyPlagiarismFlagged(ctx, e)
	case LicenseIssued:
		err = d.notifier.NotifyLicenseIssued(ctx, e)
	default:
		err = fmt.Errorf("unknown event type %T", event)
	}

	if err != nil {
		d.logger.WithError(err).WithField("event", event.Name()).Error("Failed to deliver event")
		return
	}
	d.logger.WithField("event", event.Name()).Debug("Event delivered")
}
