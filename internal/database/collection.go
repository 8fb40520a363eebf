// internal/database/collection.go
package database

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/isows-india/worklicense-backend/internal/models"
)

// Collection holds every record of one kind in memory and writes the whole
// set through its Store after each mutation. Readers always see a consistent
// snapshot.
type Collection[T models.Record] struct {
	mu      sync.RWMutex
	store   Store[T]
	records []T
	logger  *logrus.Entry
}

func OpenCollection[T models.Record](store Store[T]) (*Collection[T], error) {
	records, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %s: %w", store.Name(), err)
	}

	logger := logrus.WithField("collection", store.Name())
	logger.WithField("records", len(records)).Debug("Collection loaded")

	return &Collection[T]{
		store:   store,
		records: records,
		logger:  logger,
	}, nil
}

func (c *Collection[T]) Name() string {
	return c.store.Name()
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Snapshot returns a copy of every record.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// Find returns a copy of the first record matching fn.
func (c *Collection[T]) Find(fn func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.records {
		if fn(r) {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns copies of all records matching fn, in storage order.
func (c *Collection[T]) Filter(fn func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0)
	for _, r := range c.records {
		if fn(r) {
			out = append(out, r)
		}
	}
	return out
}

// Mutate runs fn under the write lock with a private copy of the records.
// When fn succeeds its result becomes the new in-memory state and is flushed
// to the store. An error from fn leaves the collection untouched. A flush
// failure is returned as *PersistenceError and the in-memory state is kept.
func (c *Collection[T]) Mutate(fn func(records []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	working := make([]T, len(c.records))
	copy(working, c.records)

	next, err := fn(working)
	if err != nil {
		return err
	}

	c.records = next

	if err := c.store.SaveAll(next); err != nil {
		c.logger.WithError(err).Error("Failed to flush collection")
		return &PersistenceError{Collection: c.store.Name(), Err: err}
	}
	return nil
}
