// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/isows-india/worklicense-backend/internal/database"
	"github.com/isows-india/worklicense-backend/internal/originality"
)

var (
	// ErrNotFound covers both missing records and records owned by someone
	// else.
	ErrNotFound          = errors.New("not found")
	ErrWorkLicensed      = errors.New("work is licensed")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file too large")
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PlagiarismRejectedError is returned when a submission crosses the
// plagiarism threshold. Nothing was persisted.
type PlagiarismRejectedError struct {
	Result *originality.Result
}

func (e *PlagiarismRejectedError) Error() string {
	return fmt.Sprintf("plagiarism detected (score %d)", e.Result.Score)
}

func IsPersistenceError(err error) bool {
	var perr *database.PersistenceError
	return errors.As(err, &perr)
}
