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
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrPermission     ErrorCode = "PERMISSION"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"
	ErrCancelled      ErrorCode = "CANCELLED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Platform errors
	ErrDetect              ErrorCode = "DETECT"
	ErrUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"

	// Package manager errors
	ErrManagerMissing     ErrorCode = "MANAGER_MISSING"
	ErrManagerBootstrap   ErrorCode = "MANAGER_BOOTSTRAP"
	ErrPackageInstall     ErrorCode = "PACKAGE_INSTALL"
	ErrStepRequiredFailed ErrorCode = "STEP_REQUIRED_FAILED"
	ErrStepUnknown        ErrorCode = "STEP_UNKNOWN"
	ErrCommandExecute     ErrorCode = "COMMAND_EXECUTE"

	// FileSystem errors
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess     ErrorCode = "FILE_ACCESS"
	ErrFileRead       ErrorCode = "FILE_READ"
	ErrFileWrite      ErrorCode = "FILE_WRITE"
	ErrDirCreate      ErrorCode = "DIR_CREATE"
	ErrBlockMalformed ErrorCode = "BLOCK_MALFORMED"

	// Backup errors
	ErrBackupCreate   ErrorCode = "BACKUP_CREATE"
	ErrBackupNotFound ErrorCode = "BACKUP_NOT_FOUND"
	ErrRestore        ErrorCode = "RESTORE"

	// Template errors
	ErrTemplateParse  ErrorCode = "TEMPLATE_PARSE"
	ErrTemplateRender ErrorCode = "TEMPLATE_RENDER"

	// Repository errors
	ErrRepoClone ErrorCode = "REPO_CLONE"
	ErrRepoPull  ErrorCode = "REPO_PULL"
)

// DevstrapError represents a structured error with code and details
type DevstrapError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DevstrapError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DevstrapError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DevstrapError) Is(target error) bool {
	var targetErr *DevstrapError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DevstrapError with the given code and message
func New(code ErrorCode, message string) *DevstrapError {
	return &DevstrapError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DevstrapError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DevstrapError {
	return &DevstrapError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DevstrapError.
// Returns nil when err is nil so callers can wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &DevstrapError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &DevstrapError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DevstrapError) WithDetail(key string, value interface{}) *DevstrapError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *DevstrapError) WithDetails(details map[string]interface{}) *DevstrapError {
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
	var devErr *DevstrapError
	if errors.As(err, &devErr) {
		return devErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DevstrapError
func GetErrorCode(err error) ErrorCode {
	var devErr *DevstrapError
	if errors.As(err, &devErr) {
		return devErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DevstrapError
func GetErrorDetails(err error) map[string]interface{} {
	var devErr *DevstrapError
	if errors.As(err, &devErr) {
		return devErr.Details
	}
	return nil
}
