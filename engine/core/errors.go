package core

import (
	"errors"
	"fmt"
)

var (
	ErrUnknown                = errors.New("unknown")
	ErrInstancerNotConfigured = errors.New("instancer has no asset or object to instance")
	ErrAssetNotFound          = errors.New("asset not found")
	ErrObjectNotFound         = errors.New("object not found")
	ErrPartNotFound           = errors.New("part not found")
	ErrInvalidStringHandle    = errors.New("invalid string handle")
)

// ErrorKind tells callers whether an aborted pass is worth continuing past.
type ErrorKind uint8

const (
	// The data violates an invariant of the host output. Stop.
	ErrorKindFatal ErrorKind = iota
	// The data is well formed but not something the instancer understands.
	// Sibling objects can still be processed.
	ErrorKindIgnorable
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindFatal:
		return "fatal"
	case ErrorKindIgnorable:
		return "ignorable"
	default:
		return "unknown"
	}
}

// HAPIError is raised while reading host data for an instancing pass.
type HAPIError struct {
	Kind    ErrorKind
	Message string
	// Cause is the underlying host failure, if any.
	Cause error
}

func (e *HAPIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("hapi %s error: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("hapi %s error: %s", e.Kind, e.Message)
}

func (e *HAPIError) Unwrap() error {
	return e.Cause
}

func ErrorFatal(format string, args ...interface{}) error {
	return &HAPIError{Kind: ErrorKindFatal, Message: fmt.Sprintf(format, args...)}
}

func ErrorIgnorable(format string, args ...interface{}) error {
	return &HAPIError{Kind: ErrorKindIgnorable, Message: fmt.Sprintf(format, args...)}
}

// WrapFatal classifies a host failure as fatal for the current pass.
func WrapFatal(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &HAPIError{Kind: ErrorKindFatal, Message: fmt.Sprintf(format, args...), Cause: err}
}

// IsIgnorable reports whether err, or anything it wraps, is an ignorable HAPIError.
func IsIgnorable(err error) bool {
	var he *HAPIError
	if errors.As(err, &he) {
		return he.Kind == ErrorKindIgnorable
	}
	return false
}

// IsFatal reports whether err carries a fatal HAPIError. Errors that are not
// HAPIErrors are not classified.
func IsFatal(err error) bool {
	var he *HAPIError
	if errors.As(err, &he) {
		return he.Kind == ErrorKindFatal
	}
	return false
}
