// Package apperr provides coded application errors shared across PromptVault.
package apperr

import "fmt"

// Code identifies a class of application error.
type Code string

const (
	// General errors
	ErrInternal   Code = "INTERNAL_ERROR"
	ErrInvalid    Code = "INVALID_INPUT"
	ErrNotFound   Code = "NOT_FOUND"
	ErrValidation Code = "VALIDATION_ERROR"

	// Prompt errors
	ErrPromptNotFound Code = "PROMPT_NOT_FOUND"

	// Category errors
	ErrCategoryNotFound Code = "CATEGORY_NOT_FOUND"

	// Storage errors
	ErrStorageRead  Code = "STORAGE_READ_ERROR"
	ErrStorageWrite Code = "STORAGE_WRITE_ERROR"

	// Export/import errors
	ErrExportFailed Code = "EXPORT_FAILED"
	ErrImportFormat Code = "IMPORT_FORMAT_ERROR"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code Code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an error code.
func Wrap(code Code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is checks if an error carries a specific code.
func Is(err error, code Code) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}
