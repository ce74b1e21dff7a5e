package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// plainDecimal is the numeric text Postgres NUMERIC accepts without a
// special value: no NaN, Infinity, exponent or hex form
var plainDecimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// ============================================================
// VALIDATOR CONFIG
// ============================================================

type ValidatorConfig struct {
	StrictTypes bool
}

func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		StrictTypes: true,
	}
}

// ============================================================
// VALIDATOR
// ============================================================

// FieldSet is the read side of an ordered field→value set
type FieldSet interface {
	Keys() []string
	Get(field string) (any, bool)
	Len() int
}

type Validator struct {
	table  *Table
	config ValidatorConfig
}

func NewValidator(table *Table, config ValidatorConfig) *Validator {
	return &Validator{
		table:  table,
		config: config,
	}
}

// ============================================================
// INSERT VALIDATION
// ============================================================

func (v *Validator) ValidateInsertInput(fields FieldSet) error {
	for _, name := range fields.Keys() {
		col, err := v.column(name)
		if err != nil {
			return err
		}

		if col.Generated {
			return &ConstraintError{
				Type:       "generated",
				Field:      name,
				Suggestion: "This value is assigned by the database",
			}
		}

		value, _ := fields.Get(name)
		if err := v.validateValue(col, value); err != nil {
			return err
		}
	}

	return v.validateRequiredFields(fields)
}

// ============================================================
// UPDATE VALIDATION
// ============================================================

func (v *Validator) ValidateUpdateInput(fields FieldSet) error {
	if fields == nil || fields.Len() == 0 {
		return &InvalidInputError{Reason: "no data supplied for update"}
	}

	for _, name := range fields.Keys() {
		col, err := v.column(name)
		if err != nil {
			return err
		}

		if col.PrimaryKey || col.Generated {
			return &ConstraintError{
				Type:       "primary_key",
				Field:      name,
				Suggestion: "Primary keys cannot be updated",
			}
		}

		if col.Immutable {
			return &ConstraintError{
				Type:       "immutable",
				Field:      name,
				Suggestion: "This field is fixed once the record is created",
			}
		}

		value, _ := fields.Get(name)
		if err := v.validateValue(col, value); err != nil {
			return err
		}
	}

	return nil
}

// ============================================================
// VALUE VALIDATION
// ============================================================

func (v *Validator) validateValue(col *Column, value any) error {
	if value == nil {
		if col.Nullable {
			return nil
		}
		return &NotNullError{
			Field:      col.Field,
			Suggestion: "This field cannot be null",
		}
	}

	if !v.config.StrictTypes {
		return nil
	}

	switch col.Type {
	case FieldTypeInt:
		n, ok := asInteger(value)
		if !ok {
			return mismatch(col, "int", value)
		}
		return checkBounds(col, float64(n), value)

	case FieldTypeDecimal:
		f, ok := asDecimal(value)
		if !ok {
			return mismatch(col, "decimal", value)
		}
		return checkBounds(col, f, value)

	case FieldTypeString:
		if _, ok := value.(string); !ok {
			return mismatch(col, "string", value)
		}

	case FieldTypeBool:
		if _, ok := value.(bool); !ok {
			return mismatch(col, "bool", value)
		}
	}

	return nil
}

func checkBounds(col *Column, f float64, value any) error {
	if col.Min != nil && f < *col.Min {
		return &ValidationError{
			Field:    col.Field,
			Type:     "out_of_range",
			Value:    value,
			Expected: fmt.Sprintf(">= %g", *col.Min),
			Message:  "value is below the minimum",
		}
	}
	if col.Max != nil && f > *col.Max {
		return &ValidationError{
			Field:    col.Field,
			Type:     "out_of_range",
			Value:    value,
			Expected: fmt.Sprintf("<= %g", *col.Max),
			Message:  "value is above the maximum",
		}
	}
	return nil
}

func mismatch(col *Column, expected string, value any) error {
	return &TypeMismatchError{
		Field:        col.Field,
		ExpectedType: expected,
		ReceivedType: fmt.Sprintf("%T", value),
		Value:        value,
	}
}

// ============================================================
// REQUIRED FIELDS
// ============================================================

func (v *Validator) validateRequiredFields(provided FieldSet) error {
	for _, col := range v.table.Columns {
		if col.Nullable || col.PrimaryKey || col.Generated {
			continue
		}

		if _, ok := provided.Get(col.Field); !ok {
			return &NotNullError{
				Field:      col.Field,
				Suggestion: "This field is required",
			}
		}
	}
	return nil
}

// ============================================================
// HELPERS
// ============================================================

func (v *Validator) column(field string) (*Column, error) {
	col := v.table.Column(field)
	if col == nil {
		return nil, &UnknownFieldError{
			Table:     v.table.Name,
			Field:     field,
			Available: v.table.Fields(),
		}
	}
	return col, nil
}

func asInteger(value any) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		// 2^63 is exact in float64; MaxInt64 itself is not
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func asDecimal(value any) (float64, bool) {
	switch n := value.(type) {
	case string:
		if !plainDecimal.MatchString(n) {
			return 0, false
		}
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil && !math.IsInf(f, 0)
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	default:
		i, ok := asInteger(value)
		return float64(i), ok
	}
}
