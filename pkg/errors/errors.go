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
	ErrInvalidState ErrorCode = "INVALID_STATE"
	ErrNoHomeDir    ErrorCode = "NO_HOME_DIR"

	// Filesystem errors
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrMove          ErrorCode = "MOVE"
	ErrSymlink       ErrorCode = "SYMLINK"
	ErrDelete        ErrorCode = "DELETE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrTraversal     ErrorCode = "TRAVERSAL"

	// Pattern errors
	ErrPattern ErrorCode = "PATTERN"

	// Configuration errors
	ErrConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigExists   ErrorCode = "CONFIG_EXISTS"
	ErrConfigLoad     ErrorCode = "CONFIG_LOAD"
	ErrConfigSave     ErrorCode = "CONFIG_SAVE"

	// Git errors
	ErrGitCommand ErrorCode = "GIT_COMMAND"
)

// DotbakError represents a structured error with code and details
type DotbakError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotbakError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotbakError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DotbakError) Is(target error) bool {
	var targetErr *DotbakError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotbakError with the given code and message
func New(code ErrorCode, message string) *DotbakError {
	return &DotbakError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotbakError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotbakError {
	return &DotbakError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotbakError
func Wrap(err error, code ErrorCode, message string) *DotbakError {
	if err == nil {
		return nil
	}
	return &DotbakError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotbakError {
	if err == nil {
		return nil
	}
	return &DotbakError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DotbakError) WithDetail(key string, value interface{}) *DotbakError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *DotbakError) WithDetails(details map[string]interface{}) *DotbakError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dotbakErr *DotbakError
	if errors.As(err, &dotbakErr) {
		return dotbakErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DotbakError
func GetErrorCode(err error) ErrorCode {
	var dotbakErr *DotbakError
	if errors.As(err, &dotbakErr) {
		return dotbakErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DotbakError
func GetErrorDetails(err error) map[string]interface{} {
	var dotbakErr *DotbakError
	if errors.As(err, &dotbakErr) {
		return dotbakErr.Details
	}
	return nil
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
