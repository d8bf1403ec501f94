package errors

import (
	stderrors "errors"
	"fmt"
)

// DownloadError means a source document could not be fetched.
type DownloadError struct {
	Err        error
	URL        string
	StatusCode int
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// ExtractionError means a document's structure was not recognized at all.
// Individual malformed rows are reported per row, not with this error.
type ExtractionError struct {
	Source string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.Source, e.Reason)
}

// ValidationError means a row failed a field-level invariant while a record
// was being built from it.
type ValidationError struct {
	Value  interface{}
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// PersistenceError means a storage operation failed and its transaction was
// rolled back.
type PersistenceError struct {
	Err    error
	Op     string
	Entity string
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotFoundError is returned by point lookups when no row matches the key.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return stderrors.As(err, &target)
}

// IsPersistence reports whether err wraps a PersistenceError.
func IsPersistence(err error) bool {
	var target *PersistenceError
	return stderrors.As(err, &target)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

// IsDownload reports whether err wraps a DownloadError.
func IsDownload(err error) bool {
	var target *DownloadError
	return stderrors.As(err, &target)
}

// IsExtraction reports whether err wraps an ExtractionError.
func IsExtraction(err error) bool {
	var target *ExtractionError
	return stderrors.As(err, &target)
}
