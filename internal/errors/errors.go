package errors

import (
	"fmt"
)

// Error is the structured error type for rolodex.
// It provides rich context for error handling, logging, and user
// presentation.
type Error struct {
	// Code is the unique error code (e.g., "RDX_404_CONTACT_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Storage, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with Error values.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates an Error from an existing error.
// The error's message becomes the Error message.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// NotFound creates a lookup error for an unknown contact identifier.
func NotFound(id string) *Error {
	return New(CodeNotFound, fmt.Sprintf("contact %q not found", id), nil).
		WithDetail("id", id)
}

// Validation creates an input validation error.
func Validation(code string, message string) *Error {
	return New(code, message, nil)
}

// Synchronization creates a merge conflict error. The identifier names the
// poisoned record that carries two different creation timestamps.
func Synchronization(id string) *Error {
	return New(CodeSynchronization,
		fmt.Sprintf("contact %q has conflicting creation timestamps", id), nil).
		WithDetail("id", id)
}

// Poisoned creates an error for a worker that failed mid-operation.
// Partial results are never returned in this case.
func Poisoned(op string, cause error) *Error {
	return New(CodePoisoned, fmt.Sprintf("%s worker failed", op), cause).
		WithDetail("operation", op)
}

// StorageError creates a storage backend I/O error.
func StorageError(code string, message string, cause error) *Error {
	return New(code, message, cause)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *Error {
	return New(CodeConfigInvalid, message, cause)
}

// IsRetryable checks if an error is retryable.
// Returns true if the error is an Error with the Retryable flag set.
func IsRetryable(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Retryable
	}
	return false
}

// CodeOf extracts the error code, or "" for foreign errors.
func CodeOf(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}
