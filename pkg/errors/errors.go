// Package errors provides structured error types for stackflame.
//
// Errors carry a machine-readable [Code] so the CLI and the render server can
// tell a bad option apart from an input stream that could not be read or an
// input that held no usable stack counts.
//
// # Error Codes
//
//   - NO_STACKS: every input line was empty or malformed
//   - INPUT: an input stream could not be opened or read
//   - INVALID_*: option validation failures
//   - FILE_NOT_FOUND, INTERNAL_ERROR: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoStacks, "No stack counts found")
//	if errors.Is(err, errors.ErrCodeNoStacks) {
//	    // nothing to render
//	}
//
//	err := errors.Wrap(errors.ErrCodeInput, origErr, "read input %d", i)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeNoStacks Code = "NO_STACKS"
	ErrCodeInput    Code = "INPUT"

	// Option validation errors
	ErrCodeInvalidOption    Code = "INVALID_OPTION"
	ErrCodeInvalidPalette   Code = "INVALID_PALETTE"
	ErrCodeInvalidColor     Code = "INVALID_COLOR"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
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
