package store

import (
	"errors"
	"fmt"
)

// ErrorKind classifies store failures into the categories the editing core
// reacts to. Transport-level detail (auth expiry, rate limiting) is folded
// into these kinds; the core only needs the category and retryability.
type ErrorKind string

// Error kinds
const (
	KindLoad       ErrorKind = "load"       // document/version fetch failed
	KindSave       ErrorKind = "save"       // manual or autosave write failed
	KindCustomize  ErrorKind = "customize"  // AI customization failed
	KindValidation ErrorKind = "validation" // rejected before any network call
	KindNotFound   ErrorKind = "not_found"  // resource does not exist
)

// Error is the typed failure returned by every store implementation.
type Error struct {
	Kind      ErrorKind
	Message   string
	Cause     error
	Retryable bool
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is a store Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// IsNotFound reports whether err indicates a missing resource.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}
