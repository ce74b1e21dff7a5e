package engine

import (
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{&InvalidInputError{Reason: "x"}, "INVALID_INPUT"},
		{&ValidationError{Field: "salary"}, "VALIDATION_ERROR"},
		{&TypeMismatchError{Field: "salary"}, "TYPE_MISMATCH"},
		{&UnknownFieldError{Field: "boss"}, "UNKNOWN_FIELD"},
		{&ConstraintError{Type: "immutable"}, "IMMUTABLE_CONSTRAINT"},
		{&NotFoundError{Entity: "job", ID: 3}, "NOT_FOUND"},
		{&SafetyError{}, "SAFETY_VIOLATION"},
		{fmt.Errorf("wrapped: %w", &NotFoundError{Entity: "job"}), "NOT_FOUND"},
		{fmt.Errorf("plain"), "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorCode(tt.err))
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := &NotFoundError{Entity: "job", ID: 42}
	assert.Equal(t, "No job: 42", err.Error())
	assert.True(t, IsNotFound(fmt.Errorf("get: %w", err)))
	assert.False(t, IsInvalidInput(err))
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsInvalidInput(&SafetyError{}))
	assert.True(t, IsInvalidInput(&UnknownFieldError{}))
	assert.False(t, IsInvalidInput(&ForeignKeyError{}))
	assert.True(t, IsConstraintError(&ForeignKeyError{}))
	assert.True(t, IsConstraintError(&ConstraintError{Type: "primary_key"}))
	assert.False(t, IsConstraintError(&NotFoundError{}))
}

func TestFormatError(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	out := FormatError(&NotFoundError{Entity: "job", ID: 9})
	assert.Equal(t, "Error [NOT_FOUND]: No job: 9\n  Help: check that the record exists\n", out)

	out = FormatError(fmt.Errorf("boom"))
	assert.Equal(t, "Error: boom\n", out)

	assert.Equal(t, "", FormatError(nil))
}
