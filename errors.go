// errors.go - Typed error values shared across frogos subsystems.
//
// Mirrors the teacher's VideoError{Operation, Details, Err} shape
// (video_interface.go) generalised with a Kind so subsystem boundaries
// can switch on the §7 error taxonomy without string matching.

package main

import "fmt"

// Kind tags a frogos error by the §7 error-kind taxonomy.
type Kind int

const (
	KindNotFound Kind = iota
	KindFormatUnsupported
	KindTooLarge
	KindDecodeError
	KindOutOfMemory
	KindIoShort
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindFormatUnsupported:
		return "format_unsupported"
	case KindTooLarge:
		return "too_large"
	case KindDecodeError:
		return "decode_error"
	case KindOutOfMemory:
		return "out_of_memory"
	case KindIoShort:
		return "io_short"
	default:
		return "unknown"
	}
}

// Error is the common error type returned across component boundaries.
type Error struct {
	Component string // which subsystem raised it (e.g. "avi", "image")
	Kind      Kind
	Detail    string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Component, e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Component, e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(component string, kind Kind, detail string, err error) *Error {
	return &Error{Component: component, Kind: kind, Detail: detail, Err: err}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	fe, ok := err.(*Error)
	return ok && fe.Kind == kind
}
