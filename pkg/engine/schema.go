package engine

import (
	"sort"

	"github.com/jackc/pgx/v5"
)

// Table describes a stored entity: its SQL name and the columns callers may
// address by their external field names.
type Table struct {
	Name    string    // SQL table name, e.g. "jobs"
	Entity  string    // singular name used in errors, e.g. "job"
	Columns []*Column // declaration order
}

// Column maps a caller-facing field to a storage column
type Column struct {
	Field      string    // external name, e.g. "companyHandle"
	Name       string    // column name, e.g. "company_handle"
	Type       FieldType
	Nullable   bool
	PrimaryKey bool
	Immutable  bool // may be set on insert but never updated
	Generated  bool // assigned by the store, never written
	Min        *float64
	Max        *float64
}

// FieldType represents the type of a column
type FieldType string

const (
	FieldTypeInt     FieldType = "Int"
	FieldTypeDecimal FieldType = "Decimal"
	FieldTypeString  FieldType = "String"
	FieldTypeBool    FieldType = "Bool"
)

// Column returns the column for a caller-facing field, or nil
func (t *Table) Column(field string) *Column {
	for _, col := range t.Columns {
		if col.Field == field {
			return col
		}
	}
	return nil
}

// ColumnName resolves a caller-facing field to its column name, falling back
// to the field itself when the table doesn't declare it.
func (t *Table) ColumnName(field string) string {
	if col := t.Column(field); col != nil {
		return col.Name
	}
	return field
}

// PrimaryKey returns the primary key column, or nil
func (t *Table) PrimaryKey() *Column {
	for _, col := range t.Columns {
		if col.PrimaryKey {
			return col
		}
	}
	return nil
}

// FieldNames returns the caller-facing field to column name mapping
func (t *Table) FieldNames() map[string]string {
	names := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		names[col.Field] = col.Name
	}
	return names
}

// ColumnNames returns every column name in declaration order
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		names = append(names, col.Name)
	}
	return names
}

// Fields returns the sorted caller-facing field names
func (t *Table) Fields() []string {
	fields := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		fields = append(fields, col.Field)
	}
	sort.Strings(fields)
	return fields
}

// QuoteIdentifier quotes a single SQL identifier, doubling embedded quotes.
func QuoteIdentifier(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// Bound is a helper for Column.Min / Column.Max literals
func Bound(v float64) *float64 {
	return &v
}
