package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of *sql.DB / *sql.Tx the executor needs
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Row is a single result row keyed by column name
type Row map[string]interface{}

// Executor runs statements against PostgreSQL
type Executor struct {
	db    Querier
	debug *DebugContext
}

// NewExecutor creates an executor over a database handle
func NewExecutor(db Querier, debug *DebugContext) *Executor {
	if debug == nil {
		debug = DefaultDebugContext()
	}
	return &Executor{db: db, debug: debug}
}

// WithDebug returns a copy of the executor that traces to dc
func (ex *Executor) WithDebug(dc *DebugContext) *Executor {
	return &Executor{db: ex.db, debug: dc}
}

// Traced returns a copy that traces at least at level
func (ex *Executor) Traced(level DebugLevel) *Executor {
	if ex.debug.Level >= level {
		return ex
	}
	dc := *ex.debug
	dc.Level = level
	return ex.WithDebug(&dc)
}

// Query runs a row-returning statement
func (ex *Executor) Query(ctx context.Context, stmt *Statement) ([]Row, error) {
	ex.debug.LogStatement(stmt)
	ex.explain(ctx, stmt)
	start := time.Now()

	rows, err := ex.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, translateError(err)
	}

	ex.debug.LogQuery(stmt.SQL, time.Since(start), len(result))
	return result, nil
}

// Exec runs a statement and returns the number of affected rows
func (ex *Executor) Exec(ctx context.Context, stmt *Statement) (int64, error) {
	ex.debug.LogStatement(stmt)
	ex.explain(ctx, stmt)
	start := time.Now()

	res, err := ex.db.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, translateError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	ex.debug.LogQuery(stmt.SQL, time.Since(start), int(affected))
	return affected, nil
}

// explain logs the plan of stmt at DebugExplain. Plain EXPLAIN does not
// execute the statement, so mutations are safe to plan. Failures are
// logged and never returned.
func (ex *Executor) explain(ctx context.Context, stmt *Statement) {
	if ex.debug.Level < DebugExplain {
		return
	}

	rows, err := ex.db.QueryContext(ctx, "EXPLAIN "+stmt.SQL, stmt.Args...)
	if err != nil {
		ex.debug.LogPlanError(err)
		return
	}
	defer rows.Close()

	var plan []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			ex.debug.LogPlanError(err)
			return
		}
		plan = append(plan, line)
	}
	if err := rows.Err(); err != nil {
		ex.debug.LogPlanError(err)
		return
	}

	ex.debug.LogPlan(plan)
}

// scanRows converts sql rows into our Row type
func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []Row{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// translateError maps PostgreSQL integrity violations to engine errors
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("query failed: %w", err)
	}

	switch pgErr.Code {
	case "23505":
		return &UniqueConstraintError{Table: pgErr.TableName, Constraint: pgErr.ConstraintName, Detail: pgErr.Detail}
	case "23503":
		return &ForeignKeyError{Table: pgErr.TableName, Constraint: pgErr.ConstraintName, Detail: pgErr.Detail}
	case "23502":
		return &NotNullError{Field: pgErr.ColumnName}
	}
	return fmt.Errorf("query failed: %w", err)
}

// ─────────────────────────────────────────────────────────────
// Row accessors
// ─────────────────────────────────────────────────────────────

// String returns the column as a string, or "" when null
func (r Row) String(col string) string {
	s, _ := r.OptionalString(col)
	if s == nil {
		return ""
	}
	return *s
}

// OptionalString returns nil for null columns. Numeric columns are rendered
// in their text form.
func (r Row) OptionalString(col string) (*string, error) {
	var s string
	switch v := r[col].(type) {
	case nil:
		return nil, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		s = v.String()
	default:
		return nil, fmt.Errorf("column %s: cannot read %T as string", col, v)
	}
	return &s, nil
}

// Int returns the column as an int, or 0 when null
func (r Row) Int(col string) int {
	n, _ := r.OptionalInt(col)
	if n == nil {
		return 0
	}
	return *n
}

// OptionalInt returns nil for null columns
func (r Row) OptionalInt(col string) (*int, error) {
	var n int
	switch v := r[col].(type) {
	case nil:
		return nil, nil
	case int64:
		n = int(v)
	case int32:
		n = int(v)
	case int:
		n = v
	case []byte:
		parsed, err := strconv.Atoi(string(v))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		n = parsed
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("column %s: cannot read %T as int", col, v)
	}
	return &n, nil
}
