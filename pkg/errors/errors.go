// Package errors provides the coded error taxonomy used across depwalk.
//
// Every failure that crosses a package boundary carries a [Code] so callers
// can classify it without string matching:
//   - NETWORK_ERROR: transport failures, timeouts, 5xx registry responses
//   - PACKAGE_NOT_FOUND: the package (or a pinned version) does not exist
//   - MALFORMED_METADATA: a registry or fixture document has the wrong shape
//   - INVALID_CONFIG: a configuration precondition failed before resolution
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "package %s not in fixture", name)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // record a stub node
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "GET %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Resolution errors, contained at a single graph node.
	ErrCodeNetwork           Code = "NETWORK_ERROR"
	ErrCodeNotFound          Code = "PACKAGE_NOT_FOUND"
	ErrCodeMalformedMetadata Code = "MALFORMED_METADATA"

	// Configuration errors, fatal before resolution starts.
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"

	// Output errors.
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// Only the outermost *Error in the chain is consulted, so a wrapper
// reclassifies whatever it wraps.
func Is(err error, code Code) bool {
	return GetCode(err) == code
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

// NetworkError reports a transport or server-side registry failure.
func NetworkError(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeNetwork, cause, format, args...)
}

// NotFoundError reports a package or version that does not exist.
func NotFoundError(format string, args ...any) *Error {
	return New(ErrCodeNotFound, format, args...)
}

// MalformedMetadataError reports a document that does not have the
// expected metadata shape.
func MalformedMetadataError(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeMalformedMetadata, cause, format, args...)
}

// ConfigError reports an invalid configuration precondition.
func ConfigError(format string, args ...any) *Error {
	return New(ErrCodeInvalidConfig, format, args...)
}
