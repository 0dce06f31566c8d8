// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

import (
	"errors"
	"fmt"
)

// Error is a status-coded error. Every failure of a ledger action is an
// Error; the code classifies the failure and the message is human-readable.
type Error struct {
	Code    Status
	Message string
	Cause   error
}

// Is and As are re-exported so callers do not need to import both this
// package and the standard library's.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }

// Success returns true if the status represents success.
func (s Status) Success() bool { return s < 300 }

// IsKnownError returns true if the status is non-zero and not UnknownError.
func (s Status) IsKnownError() bool { return s != 0 && s != UnknownError }

// IsClientError returns true if the status is a client error.
func (s Status) IsClientError() bool { return s >= 400 && s < 500 }

// IsServerError returns true if the status is a server error.
func (s Status) IsServerError() bool { return s >= 500 }

// Error implements error.
func (s Status) Error() string { return s.String() }

// With constructs an Error with a message built from the given values.
func (s Status) With(v ...interface{}) *Error {
	return &Error{Code: s, Message: fmt.Sprint(v...)}
}

// WithFormat constructs an Error with a formatted message. If the format
// wraps an error with %w, the wrapped error becomes the cause.
func (s Status) WithFormat(format string, args ...interface{}) *Error {
	err := fmt.Errorf(format, args...)
	e := &Error{Code: s, Message: err.Error()}
	if u, ok := err.(interface{ Unwrap() error }); ok {
		e.Cause = u.Unwrap()
	}
	return e
}

// Wrap wraps the error with the status code. Wrapping nil returns nil, and
// wrapping an Error with UnknownError returns the Error unchanged.
func (s Status) Wrap(err error) error {
	if err == nil {
		// The return type must be `error`, otherwise this return statement
		// can produce a non-nil interface holding a nil pointer
		return nil
	}
	if !s.IsKnownError() {
		if e := new(Error); errors.As(err, &e) {
			return err
		}
	}
	return &Error{Code: s, Cause: err}
}

func (e *Error) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Code
}

func (e *Error) Format(f fmt.State, verb rune) {
	if f.Flag('+') && e.Cause != nil {
		fmt.Fprintf(f, "%s: %+v", e.Message, e.Cause)
		return
	}
	f.Write([]byte(e.Error()))
}

// Is reports whether the error carries the target status.
func (e *Error) Is(target error) bool {
	switch f := target.(type) {
	case *Error:
		if e.Code == f.Code {
			return true
		}
	case Status:
		if e.Code == f {
			return true
		}
	}
	return false
}

// Code returns the status of the error, or UnknownError if the error is not
// an Error.
func CodeOf(err error) Status {
	if e := new(Error); errors.As(err, &e) {
		return e.Code
	}
	if s := Status(0); errors.As(err, &s) {
		return s
	}
	return UnknownError
}
