// Package dErrors defines coded domain errors. Services return these so
// transport layers can translate them into HTTP statuses without string
// matching, and so tests can assert on error kinds instead of messages.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure. Codes are part of the API contract:
// handlers map them to HTTP statuses and clients branch on them.
type Code string

const (
	// CodeDuplicateRecord signals a create where a record already exists for
	// the (milestone, child) pair. Recoverable: the caller should edit.
	CodeDuplicateRecord Code = "duplicate_record"

	// CodeNotFound signals an id that does not resolve.
	CodeNotFound Code = "not_found"

	// CodeForbidden signals an actor attempting a mutation it does not own
	// (wrong caregiver, or a caregiver attempting verification).
	CodeForbidden Code = "forbidden"

	// CodeInvalidState signals a verification transition attempted from a
	// non-pending state. Surfaced as a conflict.
	CodeInvalidState Code = "invalid_state"

	// CodeInvalidInput signals a value that fails domain validation.
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest signals a malformed request body or parameters.
	CodeBadRequest Code = "bad_request"

	// CodeUnauthorized signals a missing or invalid credential.
	CodeUnauthorized Code = "unauthorized"

	// CodeConflict signals an optimistic concurrency failure on edit.
	CodeConflict Code = "conflict"

	// CodeInternal signals an unexpected infrastructure failure.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. It optionally wraps a cause for logging
// while the code and message form the caller-facing contract.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New constructs a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap constructs a domain error that records an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// HasCode reports whether err is (or wraps) a domain error with the code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}
