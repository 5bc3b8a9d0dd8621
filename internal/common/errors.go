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
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
	ErrValidation   = errors.New("validation failed")

	// Batch-fatal: nothing is written when either is returned.
	ErrUnreadableSource = errors.New("input source unreadable")
	ErrMissingColumn    = errors.New("required column missing")
)

// Error codes used with AppError.
const (
	CodeConfig       = "CONFIG_ERROR"
	CodeSource       = "SOURCE_ERROR"
	CodeSchema       = "SCHEMA_ERROR"
	CodeSink         = "SINK_ERROR"
	CodeAliasesFile  = "ALIASES_ERROR"
	CodeExtractQuery = "EXTRACT_ERROR"
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

// IsBatchFatal reports whether err aborts a cleaning run.
func IsBatchFatal(err error) bool {
	return errors.Is(err, ErrUnreadableSource) || errors.Is(err, ErrMissingColumn)
}
