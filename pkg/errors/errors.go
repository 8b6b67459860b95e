// Package errors provides structured error types for the srcfetch application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Preservation of the full chain of underlying causes for diagnostics
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - NO_*: A required input could not be determined
//   - INVALID_*: Input validation failures
//   - VCS_*: Failures reported by an external version control client
//   - NETWORK_*: Network-related errors
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoSourceLocation, "package %s has no source URL", name)
//	if errors.Is(err, errors.ErrCodeNoSourceLocation) {
//	    // Handle missing source location
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeVCSClientFailure, execErr, "git fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Source resolution errors
	ErrCodeNoSourceLocation    Code = "NO_SOURCE_LOCATION"
	ErrCodeNoApplicableBackend Code = "NO_APPLICABLE_BACKEND"
	ErrCodeMalformedURL        Code = "MALFORMED_URL"
	ErrCodePartialResolution   Code = "PARTIAL_RESOLUTION"

	// External client errors
	ErrCodeVCSClientFailure Code = "VCS_CLIENT_FAILURE"
	ErrCodeClientNotFound   Code = "VCS_CLIENT_NOT_FOUND"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeTargetExists Code = "TARGET_EXISTS"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// CauseChain returns the message of every error in the chain, outermost
// first. Structured *Error links contribute their bare message so the chain
// reads as a sequence of distinct causes rather than repeated prefixes.
func CauseChain(err error) []string {
	var chain []string
	for err != nil {
		if e, ok := err.(*Error); ok {
			chain = append(chain, e.Message)
		} else {
			chain = append(chain, err.Error())
		}
		err = errors.Unwrap(err)
	}
	return chain
}
