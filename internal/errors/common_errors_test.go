package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "render error type", errType: ErrTypeRender, expected: "RENDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "missing column \"date\"",
			},
			wantMessage: "[PARSING] missing column \"date\"",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "failed to write line_plot.png",
				Cause:   fmt.Errorf("disk full"),
			},
			wantMessage: "[STORAGE] failed to write line_plot.png: disk full",
		},
		{
			name: "empty message",
			appError: &AppError{
				Type: ErrTypeRender,
			},
			wantMessage: "[RENDER] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := NewNotFoundError("input file", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Nil(t, NewParsingError("bad row", nil).Unwrap())
}

func TestAppError_IsCategory(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", NewParsingError("row 3: invalid date", nil))

	assert.True(t, errors.Is(wrapped, ErrParsing))
	assert.False(t, errors.Is(wrapped, ErrStorage))
	assert.False(t, errors.Is(errors.New("plain"), ErrParsing))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("invalid value", nil).
		WithContext("row", 4).
		WithContext("column", "value")

	require.Len(t, err.Context, 2)
	assert.Equal(t, 4, err.Context["row"])
	assert.Equal(t, "value", err.Context["column"])
}

func TestAppError_WithContext_NilContext(t *testing.T) {
	err := &AppError{Type: ErrTypeConfig, Message: "bad quantile"}
	err.WithContext("field", "Cleaning.LowerQuantile")

	require.NotNil(t, err.Context)
	assert.Equal(t, "Cleaning.LowerQuantile", err.Context["field"])
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{"parsing", NewParsingError("p", cause), ErrTypeParsing, "p"},
		{"storage", NewStorageError("s", cause), ErrTypeStorage, "s"},
		{"validation", NewValidationError("v", cause), ErrTypeValidation, "v"},
		{"not found", NewNotFoundError("input file", cause), ErrTypeNotFound, "input file not found"},
		{"config", NewConfigError("c", cause), ErrTypeConfig, "c"},
		{"render", NewRenderError("r", cause), ErrTypeRender, "r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
			assert.Equal(t, cause, tt.err.Cause)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrTypeRender, TypeOf(fmt.Errorf("draw: %w", NewRenderError("x", nil))))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}
