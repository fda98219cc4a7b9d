package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeInvalidFileType    ErrorType = "INVALID_FILE_TYPE"
	ErrTypeWorkbookUnreadable ErrorType = "WORKBOOK_UNREADABLE"
	ErrTypeNoDataFound        ErrorType = "NO_DATA_FOUND"
	ErrTypeInvalidOverride    ErrorType = "INVALID_OVERRIDE"
	ErrTypeExportFailed       ErrorType = "EXPORT_FAILED"
	ErrTypeConfig             ErrorType = "CONFIG"
	ErrTypeValidation         ErrorType = "VALIDATION"
)

// Process exit codes for the CLI.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitUnreadable  = 3
	ExitNoData      = 4
	ExitExportError = 5
)

var exitCodes = map[ErrorType]int{
	ErrTypeInvalidFileType:    ExitUsage,
	ErrTypeInvalidOverride:    ExitUsage,
	ErrTypeValidation:         ExitUsage,
	ErrTypeConfig:             ExitUsage,
	ErrTypeWorkbookUnreadable: ExitUnreadable,
	ErrTypeNoDataFound:        ExitNoData,
	ErrTypeExportFailed:       ExitExportError,
}

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Type == e.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ExitCode returns the process exit code for the error type.
func (e *AppError) ExitCode() int {
	if code, ok := exitCodes[e.Type]; ok {
		return code
	}
	return ExitFailure
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidFileType    = &AppError{Type: ErrTypeInvalidFileType, Message: "please upload a valid Excel file (.xlsx or .xls)"}
	ErrWorkbookUnreadable = &AppError{Type: ErrTypeWorkbookUnreadable, Message: "workbook could not be read"}
	ErrNoDataFound        = &AppError{Type: ErrTypeNoDataFound, Message: "no data found"}
	ErrInvalidOverride    = &AppError{Type: ErrTypeInvalidOverride, Message: "invalid calendar override"}
	ErrExportFailed       = &AppError{Type: ErrTypeExportFailed, Message: "export failed"}
)

// Helper functions for common error types

// NewInvalidFileTypeError rejects a file by extension
func NewInvalidFileTypeError(filename string) *AppError {
	return NewAppError(ErrTypeInvalidFileType, ErrInvalidFileType.Message, nil).WithContext("file", filename)
}

// NewWorkbookError wraps a failure to open or read a workbook
func NewWorkbookError(filename string, cause error) *AppError {
	return NewAppError(ErrTypeWorkbookUnreadable, fmt.Sprintf("failed to read workbook %s", filename), cause)
}

// NewNoDataError reports a workbook without attendance records
func NewNoDataError(filename string) *AppError {
	return NewAppError(ErrTypeNoDataFound, ErrNoDataFound.Message, nil).WithContext("file", filename)
}

// NewOverrideError wraps override validation failures
func NewOverrideError(cause error) *AppError {
	return NewAppError(ErrTypeInvalidOverride, ErrInvalidOverride.Message, cause)
}

// NewExportError wraps a renderer or filesystem failure
func NewExportError(format string, cause error) *AppError {
	return NewAppError(ErrTypeExportFailed, fmt.Sprintf("failed to export %s", format), cause).WithContext("format", format)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetErrorType returns the error type if it's an AppError
func GetErrorType(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// ExitCode maps any error to a CLI exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.ExitCode()
	}
	return ExitFailure
}

// UserMessage returns the message suitable for printing to a user.
func UserMessage(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
