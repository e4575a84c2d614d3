package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("registration not found")
	ErrInFlight   = errors.New("an action for this hotel is already in progress")
	ErrNotPending = errors.New("registration is no longer pending")
)

// ValidationError is raised before any request leaves the dashboard.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NetworkError covers transport failures and timeouts.
type NetworkError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// BackendError is a reply that arrived but reports failure, either through a
// non-2xx status or success=false in the payload.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

// PartialLoadError means one of the list fetches failed, so none were applied.
type PartialLoadError struct {
	Status Status
	Err    error
}

func (e *PartialLoadError) Error() string {
	return fmt.Sprintf("load %s hotels: %v", e.Status, e.Err)
}
func (e *PartialLoadError) Unwrap() error { return e.Err }

// IsRetryable reports whether err wraps a transient transport failure.
func IsRetryable(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.Retryable
}

// UserMessage is the text shown to the operator for err.
func UserMessage(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		if be.Message == "" {
			return "Unknown error"
		}
		return be.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Err.Error() + "\n\nPlease check if the backend server is running."
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
