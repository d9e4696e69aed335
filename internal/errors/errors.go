package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeDomainError      = "DOMAIN_ERROR"
	CodeInvalidRange     = "INVALID_RANGE"
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeFileError        = "FILE_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Common error constructors

// InsufficientData signals fewer usable values than the pipeline requires.
func InsufficientData(got, want int) *AppError {
	return Newf(CodeInsufficientData, "need at least %d finite values, got %d", want, got)
}

// DomainError signals a value outside the algorithm's domain, e.g. a
// non-positive measurement where a logarithm is required.
func DomainError(message string) *AppError {
	return New(CodeDomainError, message)
}

// InvalidRange signals a degenerate limit pair handed to the confidence step.
func InvalidRange(message string) *AppError {
	return New(CodeInvalidRange, message)
}

// ConfigInvalid signals a malformed configuration value.
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// FileError signals a failed read or write of an input/output file.
func FileError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeFileError,
		Message: message,
		Cause:   cause,
	}
}

// InvalidInput signals malformed caller input.
func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
