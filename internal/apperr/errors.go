// Package apperr defines the error kinds surfaced by the note store.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                 = errors.New("not found")
	ErrInvalidID                = errors.New("invalid note id")
	ErrConfigurationUnavailable = errors.New("configuration unavailable")
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindIO
	KindConfigurationUnavailable
	KindInvalidID
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindConfigurationUnavailable:
		return "configuration_unavailable"
	case KindInvalidID:
		return "invalid_id"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Op names the operation ("mkdir", "write",
// "read", "remove", "readdir", ...) and Path the file it touched, if any.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IO wraps an underlying filesystem error.
func IO(op, path string, err error) error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// InvalidID reports a rejected note id.
func InvalidID(id string, reason error) error {
	return &Error{Kind: KindInvalidID, Op: "validate id", Path: id, Err: fmt.Errorf("%w: %v", ErrInvalidID, reason)}
}

// ConfigurationUnavailable reports that the data directory could not be resolved.
func ConfigurationUnavailable(reason error) error {
	return &Error{Kind: KindConfigurationUnavailable, Op: "resolve data dir", Err: fmt.Errorf("%w: %v", ErrConfigurationUnavailable, reason)}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
