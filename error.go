package despertador

import (
	"errors"
	"fmt"
)

type errorCode string

const (
	// ErrInternal is the code of any error that isn't an *Error, such as a
	// player command that won't start or a broken history database.
	ErrInternal errorCode = "internal"

	// ErrInvalid means the input was rejected: an hour or minute out of
	// range, an unknown tone, a snooze outside 1-30 minutes.
	ErrInvalid errorCode = "invalid"

	// ErrNotFound means a configured tone has no file on disk.
	ErrNotFound errorCode = "not_found"

	// ErrConflict means the request doesn't fit the current state, such as
	// snoozing an alarm that isn't ringing.
	ErrConflict errorCode = "conflict"
)

// Error is an application error.
type Error struct {
	// Code is a machine-readable error code.
	Code errorCode

	// Description is a human-readable description of the error, suitable
	// for showing to the user as is.
	Description string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "despertador: " + string(e.Code) + ": " + e.Description
}

// Errorf returns an *Error with the given code and a description formatted
// from format and args.
func Errorf(code errorCode, format string, args ...any) error {
	return &Error{code, fmt.Sprintf(format, args...)}
}

// ErrorCode returns the error code associated with err, or ErrInternal if err
// isn't an application error.
func ErrorCode(err error) errorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return ErrInternal
}

// ErrorDescription returns a human-readable description of the error, or
// "internal error" if err isn't an application error.
func ErrorDescription(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Description != "" {
		return e.Description
	}
	return "internal error"
}
