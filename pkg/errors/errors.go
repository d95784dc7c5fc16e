package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Manifest errors
	ErrManifestRead    ErrorCode = "MANIFEST_READ"
	ErrManifestParse   ErrorCode = "MANIFEST_PARSE"
	ErrManifestInvalid ErrorCode = "MANIFEST_INVALID"

	// Command execution errors
	ErrCommandRun    ErrorCode = "COMMAND_RUN"
	ErrCommandFailed ErrorCode = "COMMAND_FAILED"

	// Install errors
	ErrInstallFailed ErrorCode = "INSTALL_FAILED"
	ErrMethodUnknown ErrorCode = "METHOD_UNKNOWN"

	// Bootstrap errors
	ErrBootstrapTool ErrorCode = "BOOTSTRAP_TOOL"
	ErrAuthRequired  ErrorCode = "AUTH_REQUIRED"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// RigError represents a structured error with code and details
type RigError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RigError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RigError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RigError) Is(target error) bool {
	var targetErr *RigError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RigError with the given code and message
func New(code ErrorCode, message string) *RigError {
	return &RigError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RigError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RigError {
	return &RigError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RigError
func Wrap(err error, code ErrorCode, message string) *RigError {
	if err == nil {
		return nil
	}
	return &RigError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RigError {
	if err == nil {
		return nil
	}
	return &RigError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RigError) WithDetail(key string, value interface{}) *RigError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rigErr *RigError
	if errors.As(err, &rigErr) {
		return rigErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RigError
func GetErrorCode(err error) ErrorCode {
	var rigErr *RigError
	if errors.As(err, &rigErr) {
		return rigErr.Code
	}
	return ErrUnknown
}
