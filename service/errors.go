package service

import (
	"errors"
	"fmt"
)

// NetworkError is a transport-level failure. It is retryable at the poller
// level only; direct request failures surface it to the caller as-is.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NotFoundError means the target artifact is gone server-side. Never retried
// automatically.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ProcessingError is a backend-reported failure. Never retried automatically;
// recovery is a fresh user-initiated operation.
type ProcessingError struct {
	Message string
}

func (e *ProcessingError) Error() string { return e.Message }

// TimeoutError means a poller exhausted its attempt budget while the job was
// still pending.
type TimeoutError struct {
	TargetID string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("job %s still pending after %d status checks", e.TargetID, e.Attempts)
}

// ValidationError is bad input caught before any request is issued.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SourceUnavailableError means a clause analysis failed because the document's
// extracted text is not available yet. Distinguished from other analysis
// failures because it has a remediation path: run processing, then retry.
type SourceUnavailableError struct {
	DocumentID string
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source text unavailable for document %s", e.DocumentID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsSourceUnavailable reports whether err is a SourceUnavailableError.
func IsSourceUnavailable(err error) bool {
	var su *SourceUnavailableError
	return errors.As(err, &su)
}
