package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fatal failures that abort a run.
type ErrorKind string

const (
	KindConfig          ErrorKind = "config"
	KindGenerationParse ErrorKind = "generation_parse"
	KindExternalService ErrorKind = "external_service"
	KindStorage         ErrorKind = "storage"
)

// Sentinels for errors.Is checks against an *Error of the matching kind.
var (
	ErrConfig          = &Error{Kind: KindConfig}
	ErrGenerationParse = &Error{Kind: KindGenerationParse}
	ErrExternalService = &Error{Kind: KindExternalService}
	ErrStorage         = &Error{Kind: KindStorage}
)

// Error wraps an underlying failure with its kind and the operation that failed.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewError builds a kinded error.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// ConfigError reports missing or invalid configuration.
func ConfigError(op string, format string, args ...any) *Error {
	return NewError(KindConfig, op, fmt.Errorf(format, args...))
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in the chain, if any.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
