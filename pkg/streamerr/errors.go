// Package streamerr defines the error taxonomy shared by every gzt
// component: a small set of Kinds plus, for CorruptedInput, a
// SubKind distinguishing which integrity check failed. Errors are built on
// github.com/pkg/errors so a call-site stack is captured once and can be
// rendered later by a zerolog sink via zerolog/pkgerrors, without every
// package needing to know about logging.
package streamerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a streamerr.Error.
type Kind int

const (
	// InvalidFormat covers magic mismatches, bad octal fields, and
	// unrecognized typeflags.
	InvalidFormat Kind = iota
	// CorruptedInput covers integrity failures detected at stream end;
	// see SubKind for which check failed.
	CorruptedInput
	// UnsafePath covers an archive member that would escape the
	// extraction destination.
	UnsafePath
	// UnsupportedFeature covers long names, unknown member types, and
	// other recognized-but-unhandled constructs.
	UnsupportedFeature
	// InvalidState covers misuse: reuse without Reset, or feeding input
	// to a codec that has already reported Done.
	InvalidState
	// IoError wraps an error surfaced verbatim from a source or sink.
	IoError
	// CapacityExceeded covers a bounded gzip field (e.g. FEXTRA) whose
	// declared length exceeds what this implementation will buffer.
	CapacityExceeded
)

func (k Kind) String() string {
	switch k {
	case InvalidFormat:
		return "InvalidFormat"
	case CorruptedInput:
		return "CorruptedInput"
	case UnsafePath:
		return "UnsafePath"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case InvalidState:
		return "InvalidState"
	case IoError:
		return "IoError"
	case CapacityExceeded:
		return "CapacityExceeded"
	default:
		return "Unknown"
	}
}

// SubKind further classifies a CorruptedInput error.
type SubKind int

const (
	// NoSubKind is used by Kinds other than CorruptedInput.
	NoSubKind SubKind = iota
	CrcMismatch
	LengthMismatch
	DeflateError
)

func (s SubKind) String() string {
	switch s {
	case CrcMismatch:
		return "CrcMismatch"
	case LengthMismatch:
		return "LengthMismatch"
	case DeflateError:
		return "DeflateError"
	default:
		return ""
	}
}

// Error is the concrete error type every gzt package returns.
type Error struct {
	Kind    Kind
	Sub     SubKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Sub != NoSubKind {
		return fmt.Sprintf("%s(%s): %s", e.Kind, e.Sub, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap lets errors.Is/errors.As see through to the underlying cause, if
// any (e.g. the real I/O error wrapped by IoError).
func (e *Error) Unwrap() error { return e.cause }

// New builds a streamerr.Error with a captured call-site stack.
func New(kind Kind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Wrap builds a streamerr.Error around an existing cause, preserving it
// for errors.Unwrap while still stamping a Kind/message and a stack.
func Wrap(kind Kind, cause error, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause})
}

// WithSub is New for CorruptedInput errors, which carry a SubKind.
func WithSub(kind Kind, sub SubKind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, Sub: sub, Message: fmt.Sprintf(format, args...)})
}

// Is reports whether err is a streamerr.Error of the given Kind.
func Is(err error, kind Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
