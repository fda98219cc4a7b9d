package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeNoDataFound,
				Message: "no data found",
			},
			wantMessage: "[NO_DATA_FOUND] no data found",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeWorkbookUnreadable,
				Message: "failed to read workbook a.xlsx",
				Cause:   fmt.Errorf("zip: not a valid zip file"),
			},
			wantMessage: "[WORKBOOK_UNREADABLE] failed to read workbook a.xlsx: zip: not a valid zip file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("render pdf: %w", NewExportError("pdf", cause))

	assert.True(t, errors.Is(err, ErrExportFailed))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNoDataFound))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "pdf", appErr.Context["format"])
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain error", errors.New("boom"), ExitFailure},
		{"invalid file type", NewInvalidFileTypeError("notes.txt"), ExitUsage},
		{"invalid override", NewOverrideError(errors.New("bad date")), ExitUsage},
		{"unreadable", NewWorkbookError("a.xlsx", errors.New("corrupt")), ExitUnreadable},
		{"no data", fmt.Errorf("wrapped: %w", NewNoDataError("a.xlsx")), ExitNoData},
		{"export", NewExportError("xlsx", errors.New("denied")), ExitExportError},
		{"unknown type", NewAppError("OTHER", "x", nil), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "please upload a valid Excel file (.xlsx or .xls)", UserMessage(NewInvalidFileTypeError("a.csv")))
	assert.Equal(t, "no data found", UserMessage(NewNoDataError("a.xlsx")))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, ErrTypeConfig, GetErrorType(NewConfigError("bad", nil)))
	assert.Equal(t, ErrTypeValidation, GetErrorType(NewAppValidationError("bad")))
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
	assert.True(t, IsAppError(NewNoDataError("a.xlsx")))
	assert.False(t, IsAppError(errors.New("plain")))
}
