package mutation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jobly-api/jobly/pkg/engine"
)

// ============================================================
// INSERT BUILDER
// ============================================================
//

type InsertBuilder struct {
	table     *engine.Table
	executor  *engine.Executor
	values    *Fields
	returning []string
	config    engine.ValidatorConfig

	debug  bool
	dryRun bool
}

func NewInsertBuilder(table *engine.Table, ex *engine.Executor) *InsertBuilder {
	return &InsertBuilder{
		table:    table,
		executor: ex,
		values:   NewFields(),
		config:   engine.DefaultValidatorConfig(),
	}
}

func (ib *InsertBuilder) Set(field string, value interface{}) engine.InsertMutation {
	ib.values.Set(field, value)
	return ib
}

func (ib *InsertBuilder) SetAll(fields engine.FieldSet) engine.InsertMutation {
	for _, k := range fields.Keys() {
		v, _ := fields.Get(k)
		ib.values.Set(k, v)
	}
	return ib
}

func (ib *InsertBuilder) Returning(fields ...string) engine.InsertMutation {
	ib.returning = append(ib.returning, fields...)
	return ib
}

func (ib *InsertBuilder) Debug() engine.InsertMutation {
	ib.debug = true
	return ib
}

func (ib *InsertBuilder) DryRun() engine.InsertMutation {
	ib.dryRun = true
	return ib
}

// Build implements engine.InsertMutation
func (ib *InsertBuilder) Build() (*engine.Statement, error) {
	if ib.values.Len() == 0 {
		return nil, &engine.InvalidInputError{Reason: "no data supplied for insert"}
	}

	validator := engine.NewValidator(ib.table, ib.config)
	if err := validator.ValidateInsertInput(ib.values); err != nil {
		return nil, err
	}

	returning, err := returningClause(ib.table, ib.returning)
	if err != nil {
		return nil, err
	}

	names := NameMap(ib.table.FieldNames())
	keys := ib.values.Keys()
	columns := make([]string, len(keys))
	placeholders := make([]string, len(keys))
	for i, k := range keys {
		columns[i] = engine.QuoteIdentifier(names.Column(k))
		placeholders[i] = engine.Placeholder(i + 1)
	}

	sql := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s)%s`,
		engine.QuoteIdentifier(ib.table.Name),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		returning,
	)

	return &engine.Statement{SQL: sql, Args: ib.values.Values()}, nil
}

// Execute implements engine.InsertMutation
func (ib *InsertBuilder) Execute(ctx context.Context) (*engine.MutationResult, error) {
	stmt, err := ib.Build()
	if err != nil {
		return nil, err
	}
	return run(ctx, ib.executor, engine.MutationInsert, ib.table, stmt, len(ib.returning) > 0, ib.debug, ib.dryRun)
}

//
// ============================================================
// UPDATE BUILDER
// ============================================================
//

type UpdateBuilder struct {
	table     *engine.Table
	executor  *engine.Executor
	filters   []filter
	updates   *Fields
	returning []string
	config    engine.ValidatorConfig
	debug     bool
	dryRun    bool
	forceAll  bool
}

func NewUpdateBuilder(table *engine.Table, ex *engine.Executor) *UpdateBuilder {
	return &UpdateBuilder{
		table:    table,
		executor: ex,
		updates:  NewFields(),
		config:   engine.DefaultValidatorConfig(),
	}
}

func (ub *UpdateBuilder) Filter(field string, value interface{}) engine.UpdateMutation {
	ub.filters = append(ub.filters, filter{field: field, value: value})
	return ub
}

func (ub *UpdateBuilder) Set(field string, value interface{}) engine.UpdateMutation {
	ub.updates.Set(field, value)
	return ub
}

func (ub *UpdateBuilder) SetAll(fields engine.FieldSet) engine.UpdateMutation {
	for _, k := range fields.Keys() {
		v, _ := fields.Get(k)
		ub.updates.Set(k, v)
	}
	return ub
}

func (ub *UpdateBuilder) ForceAll() engine.UpdateMutation {
	ub.forceAll = true
	return ub
}

func (ub *UpdateBuilder) Returning(fields ...string) engine.UpdateMutation {
	ub.returning = append(ub.returning, fields...)
	return ub
}

func (ub *UpdateBuilder) Debug() engine.UpdateMutation {
	ub.debug = true
	return ub
}

func (ub *UpdateBuilder) DryRun() engine.UpdateMutation {
	ub.dryRun = true
	return ub
}

// Build compiles the SET list first, so an empty update fails before
// anything else is looked at.
func (ub *UpdateBuilder) Build() (*engine.Statement, error) {
	assignment, err := CompileUpdate(ub.updates, NameMap(ub.table.FieldNames()))
	if err != nil {
		return nil, err
	}

	validator := engine.NewValidator(ub.table, ub.config)
	if err := validator.ValidateUpdateInput(ub.updates); err != nil {
		return nil, err
	}

	if len(ub.filters) == 0 && !ub.forceAll {
		return nil, &engine.SafetyError{
			Operation:  "update_without_filter",
			Message:    "UPDATE requires a WHERE clause",
			Suggestion: "Use Filter() or ForceAll()",
		}
	}

	where, whereArgs, err := whereClause(ub.table, ub.filters, assignment.Next())
	if err != nil {
		return nil, err
	}

	returning, err := returningClause(ub.table, ub.returning)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf(
		`UPDATE %s SET %s%s%s`,
		engine.QuoteIdentifier(ub.table.Name),
		assignment.SetCols(),
		where,
		returning,
	)

	args := append(assignment.Values, whereArgs...)
	return &engine.Statement{SQL: sql, Args: args}, nil
}

// Execute validates and runs the mutation
func (ub *UpdateBuilder) Execute(ctx context.Context) (*engine.MutationResult, error) {
	stmt, err := ub.Build()
	if err != nil {
		return nil, err
	}
	return run(ctx, ub.executor, engine.MutationUpdate, ub.table, stmt, len(ub.returning) > 0, ub.debug, ub.dryRun)
}

//
// ============================================================
// DELETE BUILDER
// ============================================================
//

type DeleteBuilder struct {
	table     *engine.Table
	executor  *engine.Executor
	filters   []filter
	returning []string
	debug     bool
	dryRun    bool
	forceAll  bool
}

func NewDeleteBuilder(table *engine.Table, ex *engine.Executor) *DeleteBuilder {
	return &DeleteBuilder{
		table:    table,
		executor: ex,
	}
}

func (db *DeleteBuilder) Filter(field string, value interface{}) engine.DeleteMutation {
	db.filters = append(db.filters, filter{field: field, value: value})
	return db
}

func (db *DeleteBuilder) ForceAll() engine.DeleteMutation {
	db.forceAll = true
	return db
}

func (db *DeleteBuilder) Returning(fields ...string) engine.DeleteMutation {
	db.returning = append(db.returning, fields...)
	return db
}

func (db *DeleteBuilder) Debug() engine.DeleteMutation {
	db.debug = true
	return db
}

func (db *DeleteBuilder) DryRun() engine.DeleteMutation {
	db.dryRun = true
	return db
}

func (db *DeleteBuilder) Build() (*engine.Statement, error) {
	if len(db.filters) == 0 && !db.forceAll {
		return nil, &engine.SafetyError{
			Operation:  "delete_without_filter",
			Message:    "DELETE without WHERE is blocked",
			Suggestion: "Use Filter() or ForceAll()",
		}
	}

	where, args, err := whereClause(db.table, db.filters, 1)
	if err != nil {
		return nil, err
	}

	returning, err := returningClause(db.table, db.returning)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf(
		`DELETE FROM %s%s%s`,
		engine.QuoteIdentifier(db.table.Name),
		where,
		returning,
	)

	return &engine.Statement{SQL: sql, Args: args}, nil
}

// Execute validates and runs the mutation
func (db *DeleteBuilder) Execute(ctx context.Context) (*engine.MutationResult, error) {
	stmt, err := db.Build()
	if err != nil {
		return nil, err
	}
	return run(ctx, db.executor, engine.MutationDelete, db.table, stmt, len(db.returning) > 0, db.debug, db.dryRun)
}

//
// ============================================================
// UTILS
// ============================================================
//

type filter struct {
	field string
	value any
}

// whereClause renders ` WHERE "a" = $start AND "b" = $start+1`
func whereClause(table *engine.Table, filters []filter, start int) (string, []any, error) {
	if len(filters) == 0 {
		return "", []any{}, nil
	}

	clauses := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for i, f := range filters {
		col := table.Column(f.field)
		if col == nil {
			return "", nil, &engine.UnknownFieldError{
				Table:     table.Name,
				Field:     f.field,
				Available: table.Fields(),
			}
		}
		clauses = append(clauses, engine.QuoteIdentifier(col.Name)+" = "+engine.Placeholder(start+i))
		args = append(args, f.value)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func returningClause(table *engine.Table, fields []string) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}

	cols := make([]string, 0, len(fields))
	for _, field := range fields {
		col := table.Column(field)
		if col == nil {
			return "", &engine.UnknownFieldError{
				Table:     table.Name,
				Field:     field,
				Available: table.Fields(),
			}
		}
		cols = append(cols, engine.QuoteIdentifier(col.Name))
	}

	return " RETURNING " + strings.Join(cols, ", "), nil
}

// run prints and executes a built statement
func run(
	ctx context.Context,
	ex *engine.Executor,
	kind engine.MutationType,
	table *engine.Table,
	stmt *engine.Statement,
	returning, debug, dryRun bool,
) (*engine.MutationResult, error) {
	result := &engine.MutationResult{
		Type:      kind,
		Table:     table.Name,
		Statement: stmt,
		DryRun:    dryRun,
	}

	if dryRun {
		if debug {
			dc := engine.DefaultDebugContext()
			dc.Level = engine.DebugSQL
			dc.LogStatement(stmt)
		}
		return result, nil
	}

	if ex == nil {
		return nil, fmt.Errorf("not connected to database, call Engine.Connect() first")
	}
	if debug {
		ex = ex.Traced(engine.DebugSQL)
	}

	if returning {
		rows, err := ex.Query(ctx, stmt)
		if err != nil {
			return nil, err
		}
		result.Rows = rows
		result.Affected = int64(len(rows))
		return result, nil
	}

	affected, err := ex.Exec(ctx, stmt)
	if err != nil {
		return nil, err
	}
	result.Affected = affected
	return result, nil
}
