package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors. Every document-level failure wraps exactly
// one of these so handlers and retry predicates can classify with errors.Is.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrValidation            = errors.New("validation failed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrTransientAPI          = errors.New("transient api error")
	ErrStorage               = errors.New("storage error")
	ErrInternal              = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func ValidationError(format string, args ...any) error {
	return NewAppError("VALIDATION_ERROR", fmt.Sprintf(format, args...), ErrValidation)
}

func DependencyError(format string, args ...any) error {
	return NewAppError("DEPENDENCY_UNAVAILABLE", fmt.Sprintf(format, args...), ErrDependencyUnavailable)
}

func TransientError(format string, args ...any) error {
	return NewAppError("TRANSIENT_API_ERROR", fmt.Sprintf(format, args...), ErrTransientAPI)
}

func StorageError(format string, args ...any) error {
	return NewAppError("STORAGE_ERROR", fmt.Sprintf(format, args...), ErrStorage)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Classification helpers
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsTransient(err error) bool  { return errors.Is(err, ErrTransientAPI) }
func IsStorage(err error) bool    { return errors.Is(err, ErrStorage) }
