// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Configuration errors (100-199): Conflicting or missing subscription targets, bad limits
//   - Watchlist errors (200-299): Watchlist file reading, parsing and validation
//   - Transport errors (300-399): Connection, rejected requests and mid-stream failures
//   - Decode errors (400-499): Malformed wire records
//   - Output errors (500-599): Event writer failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeMissingTarget, "no subscription target")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeTooManyTargets, "watchlist has %d entries", n)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeConnectionFailed, "failed to open stream", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeConflictingMode) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error.
// Returns ErrCodeUnknown if no *Error or *MalformedEventError is found in the chain.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	var malformed *MalformedEventError
	if errors.As(err, &malformed) {
		return ErrCodeMalformedEvent
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsConfigurationError reports whether err was raised before any connection was opened:
// conflicting or missing targets, invalid limits and every watchlist failure.
func IsConfigurationError(err error) bool {
	code := GetCode(err)

	return code >= 100 && code < 300
}

// IsTransportError reports whether err is a connection, rejection or mid-stream failure.
func IsTransportError(err error) bool {
	code := GetCode(err)

	return code >= 300 && code < 400
}

// MalformedEventError represents a wire record that could not be decoded
// into a price event. Field names the offending wire key ("" when the record
// itself is not a JSON object).
type MalformedEventError struct {
	Field  string // Wire key that is missing or mistyped
	Reason string // Human-readable reason
}

// NewMalformedEventError creates a new MalformedEventError.
func NewMalformedEventError(field, reason string) *MalformedEventError {
	return &MalformedEventError{
		Field:  field,
		Reason: reason,
	}
}

// NewMalformedEventErrorf creates a new MalformedEventError with a formatted reason.
func NewMalformedEventErrorf(field, format string, args ...any) *MalformedEventError {
	return &MalformedEventError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *MalformedEventError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("[%d] malformed event: %s", ErrCodeMalformedEvent, e.Reason)
	}

	return fmt.Sprintf("[%d] malformed event field %q: %s", ErrCodeMalformedEvent, e.Field, e.Reason)
}

// IsMalformedEventError checks if an error is a MalformedEventError.
// It uses errors.As to check the error chain.
func IsMalformedEventError(err error) bool {
	var malformedErr *MalformedEventError

	return errors.As(err, &malformedErr)
}
