package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================
// BASE ERROR INTERFACES
// ============================================================

// Coded is implemented by every error produced by the engine and its builders.
type Coded interface {
	error
	Code() string // Error code for programmatic handling
}

// ============================================================
// INPUT ERRORS (Before SQL generation)
// ============================================================

// InvalidInputError: the caller supplied nothing usable
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "InvalidInputError: " + e.Reason
}

func (e *InvalidInputError) Code() string { return "INVALID_INPUT" }

// ValidationError: value rejected by a column rule (range, format)
type ValidationError struct {
	Field    string // "salary", "equity"
	Type     string // "out_of_range", "invalid_format"
	Value    any    // actual value provided
	Expected string // ">= 0", "<= 1"
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf(
		"ValidationError: field '%s' %s (expected %s, got %v): %s",
		e.Field, e.Type, e.Expected, e.Value, e.Message,
	)
}

func (e *ValidationError) Code() string { return "VALIDATION_ERROR" }

// TypeMismatchError: value doesn't match the column type
type TypeMismatchError struct {
	Field        string
	ExpectedType string // "int", "decimal", "string"
	ReceivedType string
	Value        any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"TypeMismatchError: field '%s' expects %s, received %s (value: %v)",
		e.Field, e.ExpectedType, e.ReceivedType, e.Value,
	)
}

func (e *TypeMismatchError) Code() string { return "TYPE_MISMATCH" }

// UnknownFieldError: field doesn't exist on the table
type UnknownFieldError struct {
	Table     string
	Field     string
	Available []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf(
		"UnknownFieldError: %s has no field '%s' (available: %s)",
		e.Table, e.Field, strings.Join(e.Available, ", "),
	)
}

func (e *UnknownFieldError) Code() string { return "UNKNOWN_FIELD" }

// ============================================================
// CONSTRAINT ERRORS (Data integrity)
// ============================================================

// ConstraintError: write rejected by a table rule before execution
type ConstraintError struct {
	Type       string // "primary_key", "immutable"
	Field      string
	Suggestion string
}

func (e *ConstraintError) Error() string {
	msg := fmt.Sprintf("ConstraintError: %s constraint on field '%s'", e.Type, e.Field)
	if e.Suggestion != "" {
		msg += ": " + e.Suggestion
	}
	return msg
}

func (e *ConstraintError) Code() string { return strings.ToUpper(e.Type) + "_CONSTRAINT" }

// NotNullError: required field is null or missing
type NotNullError struct {
	Field      string
	Suggestion string
}

func (e *NotNullError) Error() string {
	msg := fmt.Sprintf("NotNullError: field '%s' cannot be null", e.Field)
	if e.Suggestion != "" {
		msg += ": " + e.Suggestion
	}
	return msg
}

func (e *NotNullError) Code() string { return "NOT_NULL_VIOLATION" }

// UniqueConstraintError: value already exists
type UniqueConstraintError struct {
	Table      string
	Constraint string
	Detail     string
}

func (e *UniqueConstraintError) Error() string {
	return fmt.Sprintf("UniqueConstraintError: %s violates %s: %s", e.Table, e.Constraint, e.Detail)
}

func (e *UniqueConstraintError) Code() string { return "UNIQUE_CONSTRAINT_VIOLATION" }

// ForeignKeyError: referenced record doesn't exist
type ForeignKeyError struct {
	Table      string
	Constraint string
	Detail     string
}

func (e *ForeignKeyError) Error() string {
	return fmt.Sprintf("ForeignKeyError: %s violates %s: %s", e.Table, e.Constraint, e.Detail)
}

func (e *ForeignKeyError) Code() string { return "FOREIGN_KEY_VIOLATION" }

// ============================================================
// EXECUTION ERRORS (After SQL generation)
// ============================================================

// NotFoundError: the addressed record doesn't exist
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No %s: %v", e.Entity, e.ID)
}

func (e *NotFoundError) Code() string { return "NOT_FOUND" }

// SafetyError: unfiltered update/delete blocked
type SafetyError struct {
	Operation  string // "update_without_filter", "delete_without_filter"
	Message    string
	Suggestion string
}

func (e *SafetyError) Error() string {
	return fmt.Sprintf("SafetyError: %s: %s (%s)", e.Operation, e.Message, e.Suggestion)
}

func (e *SafetyError) Code() string { return "SAFETY_VIOLATION" }

// ============================================================
// HELPER FUNCTIONS
// ============================================================

// ErrorCode extracts the error code
func ErrorCode(err error) string {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return "UNKNOWN_ERROR"
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidInput reports whether err was caused by the caller's input
func IsInvalidInput(err error) bool {
	var (
		invalid  *InvalidInputError
		valErr   *ValidationError
		mismatch *TypeMismatchError
		unknown  *UnknownFieldError
		safety   *SafetyError
	)
	return errors.As(err, &invalid) ||
		errors.As(err, &valErr) ||
		errors.As(err, &mismatch) ||
		errors.As(err, &unknown) ||
		errors.As(err, &safety)
}

// IsConstraintError checks if error is constraint-related
func IsConstraintError(err error) bool {
	var (
		constraint *ConstraintError
		notNull    *NotNullError
		unique     *UniqueConstraintError
		fk         *ForeignKeyError
	)
	return errors.As(err, &constraint) ||
		errors.As(err, &notNull) ||
		errors.As(err, &unique) ||
		errors.As(err, &fk)
}
