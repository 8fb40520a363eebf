// internal/database/errors.go
package database

import "fmt"

// PersistenceError reports that a collection could not be written to durable
// storage. The in-memory state already reflects the mutation.
type PersistenceError struct {
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
