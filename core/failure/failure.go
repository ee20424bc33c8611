// Package failure defines the small taxonomy of request failures the dispatcher
// knows how to resolve. Handlers report a failure kind by returning an error
// built here (or wrapping one of the sentinels), and the dispatcher classifies
// by kind, never by message text.
package failure

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// Kind is the declared category of a failure.
type Kind int

const (
	// KindUnclassified is any failure without a more specific kind.
	KindUnclassified Kind = iota
	// KindConfiguration means the application configuration is incomplete.
	KindConfiguration
	// KindSecurity means the current user is not allowed to see the resource.
	KindSecurity
	// KindRuntimeSignal is a warning or panic promoted to a failure in debug mode.
	KindRuntimeSignal
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindSecurity:
		return "security"
	case KindRuntimeSignal:
		return "runtime_signal"
	default:
		return "unclassified"
	}
}

// Sentinels for errors.Is checks. Wrapping any of them declares the kind.
var (
	ErrConfiguration = errors.New("configuration incomplete")
	ErrSecurity      = errors.New("access denied")
	ErrRuntimeSignal = errors.New("runtime signal")
)

// Error is a failure carrying its kind and the source location where it was raised.
type Error struct {
	Kind    Kind
	Message string
	File    string
	Line    int
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the cause and the kind sentinel to errors.Is.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := sentinel(e.Kind); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// New creates a failure of the given kind, recording the caller's location.
func New(kind Kind, format string, args ...any) *Error {
	return newAt(2, kind, nil, format, args...)
}

// Wrap attaches a kind to an existing error.
// Returns nil for a nil error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return newAt(2, kind, err, format, args...)
}

// Configuration reports incomplete configuration.
func Configuration(format string, args ...any) *Error {
	return newAt(2, KindConfiguration, nil, format, args...)
}

// Security reports a security denial.
func Security(format string, args ...any) *Error {
	return newAt(2, KindSecurity, nil, format, args...)
}

// RuntimeSignal reports a promoted warning or recovered panic.
func RuntimeSignal(format string, args ...any) *Error {
	return newAt(2, KindRuntimeSignal, nil, format, args...)
}

// KindOf returns the declared kind of err.
// Configuration is checked before security, security before runtime signals.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnclassified
	}
	switch {
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrSecurity):
		return KindSecurity
	case errors.Is(err, ErrRuntimeSignal):
		return KindRuntimeSignal
	}
	return KindUnclassified
}

// Location returns the source location recorded on err, if any.
func Location(err error) (file string, line int, ok bool) {
	var fe *Error
	if errors.As(err, &fe) && fe.File != "" {
		return fe.File, fe.Line, true
	}
	return "", 0, false
}

func newAt(skip int, kind Kind, err error, format string, args ...any) *Error {
	e := &Error{Kind: kind, Err: err}
	if format != "" {
		e.Message = fmt.Sprintf(format, args...)
	}
	if _, file, line, ok := runtime.Caller(skip); ok {
		e.File = filepath.Base(file)
		e.Line = line
	}
	return e
}

func sentinel(k Kind) error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindSecurity:
		return ErrSecurity
	case KindRuntimeSignal:
		return ErrRuntimeSignal
	}
	return nil
}
