// Package errors provides standardized error handling for the Workbench
// application. It defines the error kinds the sync engine distinguishes,
// and helper functions for consistent error creation, wrapping, and
// classification across the application.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package functions that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Unreachable means the sandbox channel is down. Retried by natural
	// future triggers, never busy-retried.
	Unreachable
	// NotFound means a path vanished remotely. Surfaced to the caller;
	// the entity is left in its last-known-good local state.
	NotFound
	// WriteRejected means the sandbox refused a write. The entity stays
	// dirty; surfaced as a warning, not fatal.
	WriteRejected
	// MalformedListing means a reconciliation entry could not be used.
	// The entry is skipped and the rest of the batch still processes.
	MalformedListing
	// Config error kinds
	InvalidConfig
)

// Common error constants for frequently occurring errors
var (
	ErrUnreachable   = NewSandboxError("sandbox unreachable", "", Unreachable, nil)
	ErrNotFound      = NewSandboxError("file not found in sandbox", "", NotFound, nil)
	ErrWriteRejected = NewSandboxError("sandbox rejected write", "", WriteRejected, nil)
	ErrInvalidConfig = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// SandboxError represents a failure of a sandbox file operation
type SandboxError struct {
	ApplicationError
	path string
}

// NewSandboxError creates a new sandbox error
func NewSandboxError(msg string, path string, kind ErrorKind, err error) *SandboxError {
	return &SandboxError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the sandbox error message
func (e *SandboxError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the sandbox path associated with the error
func (e *SandboxError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// kindOf extracts the ErrorKind from anywhere in the error chain.
func kindOf(err error) ErrorKind {
	var sandboxErr *SandboxError
	if errors.As(err, &sandboxErr) {
		return sandboxErr.Kind()
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return Unknown
}

// IsUnreachable checks if the error indicates the sandbox channel is down
func IsUnreachable(err error) bool {
	return kindOf(err) == Unreachable
}

// IsNotFound checks if the error indicates a path vanished remotely
func IsNotFound(err error) bool {
	return kindOf(err) == NotFound
}

// IsWriteRejected checks if the error indicates the sandbox refused a write
func IsWriteRejected(err error) bool {
	return kindOf(err) == WriteRejected
}

// IsMalformedListing checks if the error indicates an unusable listing entry
func IsMalformedListing(err error) bool {
	return kindOf(err) == MalformedListing
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}
