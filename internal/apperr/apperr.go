// Package apperr classifies the errors vibetree surfaces to the user.
// Every filesystem, git and process failure is reported as an *Error with a Kind,
// so callers can decide between an inline message, a batch report or a fatal exit.
package apperr

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind is the class of an Error.
type Kind int

const (
	KindIO Kind = iota
	KindConflict
	KindNotFound
	KindProcess
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindProcess:
		return "process"
	default:
		return "io"
	}
}

// Sentinels for errors.Is checks against a Kind.
var (
	ErrIO       = &Error{Kind: KindIO}
	ErrConflict = &Error{Kind: KindConflict}
	ErrNotFound = &Error{Kind: KindNotFound}
	ErrProcess  = &Error{Kind: KindProcess}
)

// Error is a classified failure of one operation on one path.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

// New creates an Error of the given kind.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Conflict reports that path already exists.
func Conflict(op, path string) *Error {
	return &Error{Kind: KindConflict, Op: op, Path: path, Err: fs.ErrExist}
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		if msg != "" {
			msg += " "
		}
		msg += e.Path
	}
	if e.Err != nil {
		if msg == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if msg == "" {
		return e.Kind.String() + " error"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrConflict) works
// regardless of op and path.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Path == "" && t.Err == nil
}

// FromFS wraps a filesystem error, classifying missing and existing paths.
// A nil err returns nil.
func FromFS(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	kind := KindIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrExist):
		kind = KindConflict
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: unwrapPath(err)}
}

// unwrapPath strips *fs.PathError so the path is not printed twice.
func unwrapPath(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

// KindOf returns the Kind of err, or KindIO when err is not classified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindIO
}
