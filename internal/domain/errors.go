package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a conversion or settings failure.
type ErrorKind string

const (
	KindInputNotFound   ErrorKind = "InputNotFound"
	KindDecodeError     ErrorKind = "DecodeError"
	KindEncodeError     ErrorKind = "EncodeError"
	KindIOError         ErrorKind = "IOError"
	KindConfigReadError ErrorKind = "ConfigReadError"
)

// Sentinels for errors.Is checks against a *Error of the same kind.
var (
	ErrInputNotFound = &Error{Kind: KindInputNotFound}
	ErrDecode        = &Error{Kind: KindDecodeError}
	ErrEncode        = &Error{Kind: KindEncodeError}
	ErrIO            = &Error{Kind: KindIOError}
	ErrConfigRead    = &Error{Kind: KindConfigReadError}
)

// Error is a tagged failure. Err keeps the original cause so its message can be shown as-is.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError tags err with kind and the path it concerns.
func NewError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
