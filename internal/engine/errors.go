package engine

import (
	"errors"
	"fmt"
)

// RunError represents a failure of an analysis run.
//
// The rules themselves cannot fail. A run fails when it is cancelled, when
// a finding has no presentation in the catalog, or when persisting the run
// fails.
type RunError struct {
	// Code identifies the error category.
	Code RunErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected run.
	RunID string

	// Class names the class being processed, if any.
	Class string

	// Err is the underlying cause.
	Err error
}

// RunErrorCode categorizes run errors.
type RunErrorCode string

const (
	// ErrCodeCancelled indicates the context was cancelled mid-run.
	ErrCodeCancelled RunErrorCode = "CANCELLED"

	// ErrCodeRender indicates a finding could not be rendered or hashed.
	ErrCodeRender RunErrorCode = "RENDER_FAILED"

	// ErrCodeStore indicates the run could not be persisted.
	ErrCodeStore RunErrorCode = "STORE_FAILED"
)

// Error implements the error interface.
func (e *RunError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.RunID != "" && e.Class != "" {
		msg = fmt.Sprintf("%s (run=%s, class=%s)", msg, e.RunID, e.Class)
	} else if e.RunID != "" {
		msg = fmt.Sprintf("%s (run=%s)", msg, e.RunID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RunError) Unwrap() error {
	return e.Err
}

// IsCancelled returns true if the run was stopped by context cancellation.
// Uses errors.As to handle wrapped errors.
func IsCancelled(err error) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == ErrCodeCancelled
	}
	return false
}

// IsStoreError returns true if the run failed while persisting.
func IsStoreError(err error) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == ErrCodeStore
	}
	return false
}
