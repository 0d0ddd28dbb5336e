package nifi

import (
	"errors"
	"fmt"
)

// ErrorKind classifies client failures for the tool dispatcher.
type ErrorKind string

const (
	// KindAuth covers credential resolution failures and 401/403 responses.
	KindAuth ErrorKind = "auth"
	// KindPermission marks a write operation attempted in read-only mode.
	KindPermission ErrorKind = "permission"
	// KindTransient marks a retryable failure whose retry budget ran out.
	KindTransient ErrorKind = "transient"
	// KindRemote marks a non-retryable API error.
	KindRemote ErrorKind = "remote"
)

// Error is the typed failure surfaced by the client.
type Error struct {
	Kind   ErrorKind
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Body != "":
		return fmt.Sprintf("nifi %s: %s error (status %d): %s", e.Op, e.Kind, e.Status, e.Body)
	case e.Status != 0:
		return fmt.Sprintf("nifi %s: %s error (status %d)", e.Op, e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("nifi %s: %s error: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("nifi %s: %s error", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the failure was classified transient.
func (e *Error) Retryable() bool { return e.Kind == KindTransient }

// KindOf extracts the error kind, defaulting to KindRemote for foreign errors.
func KindOf(err error) ErrorKind {
	var ne *Error
	if errors.As(err, &ne) {
		return ne.Kind
	}
	return KindRemote
}

// StatusOf extracts the HTTP status, or 0 when unknown.
func StatusOf(err error) int {
	var ne *Error
	if errors.As(err, &ne) {
		return ne.Status
	}
	return 0
}
