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

// Common application errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("resource not found")
	ErrNoText             = errors.New("no text acquired")
	ErrLowCompleteness    = errors.New("completeness below threshold")
	ErrSchemaMismatch     = errors.New("output schema mismatch")
	ErrBackendUnavailable = errors.New("acquisition backend unavailable")
	ErrDatabase           = errors.New("database error")
)

// Error codes used with AppError.
const (
	CodeConfig      = "CONFIG_ERROR"
	CodeAcquisition = "ACQUISITION_ERROR"
	CodeDocument    = "DOCUMENT_ERROR"
	CodeOutput      = "OUTPUT_ERROR"
	CodeLedger      = "LEDGER_ERROR"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ErrorCode returns the AppError code carried by err, or "".
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
