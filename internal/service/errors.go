package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Service matches exactly one of them
// with errors.Is.
var (
	ErrValidation          = errors.New("validation error")
	ErrConflict            = errors.New("conflict")
	ErrAuth                = errors.New("authentication error")
	ErrNotFoundOrForbidden = errors.New("not found or forbidden")
	ErrStorage             = errors.New("storage error")
)

// Error is a domain error carrying a user-facing message
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string { return e.msg }

// Message returns the text shown to the user
func (e *Error) Message() string { return e.msg }

// Kind returns the sentinel this error matches
func (e *Error) Kind() error { return e.kind }

func (e *Error) Is(target error) bool { return target == e.kind }

func (e *Error) Unwrap() error { return e.cause }

// NewError returns a domain error of the given kind with a user-facing message
func NewError(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func validationError(format string, args ...any) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func conflictError(msg string) error {
	return &Error{kind: ErrConflict, msg: msg}
}

func authError(msg string) error {
	return &Error{kind: ErrAuth, msg: msg}
}

// notFoundError is used for both "absent" and "owned by someone else"
func notFoundError(msg string) error {
	return &Error{kind: ErrNotFoundOrForbidden, msg: msg}
}

// storageError appends the underlying text to msg for diagnostics
func storageError(msg string, cause error) error {
	return &Error{kind: ErrStorage, msg: msg + ": " + cause.Error(), cause: cause}
}

// opaqueStorageError keeps the underlying text out of the message
func opaqueStorageError(msg string, cause error) error {
	return &Error{kind: ErrStorage, msg: msg, cause: cause}
}

// asServiceError passes domain errors through and wraps anything else as a
// storage error.
func asServiceError(err error, msg string) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return storageError(msg, err)
}

// Message returns the user-facing text for err
func Message(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.msg
	}
	return "An unexpected error occurred"
}
