package engine

import "context"

// ============================================================
// MUTATION TYPES
// ============================================================

type MutationType int

const (
	MutationInsert MutationType = iota
	MutationUpdate
	MutationDelete
)

func (t MutationType) String() string {
	switch t {
	case MutationInsert:
		return "insert"
	case MutationUpdate:
		return "update"
	case MutationDelete:
		return "delete"
	}
	return "unknown"
}

// ============================================================
// MUTATION RESULT
// ============================================================

// MutationResult is returned by every mutation builder
type MutationResult struct {
	Type      MutationType
	Table     string
	Statement *Statement
	Rows      []Row // RETURNING rows, if requested
	Affected  int64
	DryRun    bool
}

// ============================================================
// MUTATION BUILDER INTERFACES
// ============================================================

// InsertMutation builds and executes INSERT operations
type InsertMutation interface {
	// Set adds a field to insert; fields keep the order they were set in
	Set(field string, value interface{}) InsertMutation

	// SetAll adds every field of an ordered set
	SetAll(fields FieldSet) InsertMutation

	// Returning adds a RETURNING clause for the given fields
	Returning(fields ...string) InsertMutation

	Debug() InsertMutation
	DryRun() InsertMutation

	// Build validates and assembles the statement without running it
	Build() (*Statement, error)

	// Execute validates and runs the mutation
	Execute(ctx context.Context) (*MutationResult, error)
}

// UpdateMutation builds and executes UPDATE operations
type UpdateMutation interface {
	// Set adds a field to update; placeholders follow the order of Set calls
	Set(field string, value interface{}) UpdateMutation

	// SetAll adds every field of an ordered set
	SetAll(fields FieldSet) UpdateMutation

	// Filter adds an equality condition (WHERE field = value), numbered
	// after the SET values
	Filter(field string, value interface{}) UpdateMutation

	// ForceAll allows an UPDATE without filters
	ForceAll() UpdateMutation

	Returning(fields ...string) UpdateMutation
	Debug() UpdateMutation
	DryRun() UpdateMutation
	Build() (*Statement, error)
	Execute(ctx context.Context) (*MutationResult, error)
}

// DeleteMutation builds and executes DELETE operations
type DeleteMutation interface {
	Filter(field string, value interface{}) DeleteMutation
	ForceAll() DeleteMutation
	Returning(fields ...string) DeleteMutation
	Debug() DeleteMutation
	DryRun() DeleteMutation
	Build() (*Statement, error)
	Execute(ctx context.Context) (*MutationResult, error)
}

// ============================================================
// FACTORY
// ============================================================

// MutationFactory creates mutation builders
//
// Engine delegates all mutation creation to the injected factory, which
// keeps this package free of a dependency on the builders.
type MutationFactory interface {
	NewInsert(table *Table, ex *Executor) InsertMutation
	NewUpdate(table *Table, ex *Executor) UpdateMutation
	NewDelete(table *Table, ex *Executor) DeleteMutation
}
