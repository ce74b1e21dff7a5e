package engine

import (
	"context"
	"fmt"
	"strings"
)

// --- Query Builder ---

// QueryBuilder provides a chainable API for building SELECT statements
type QueryBuilder struct {
	engine  *Engine
	from    string
	columns []string
	joins   []string
	where   Predicate
	orderBy []string

	// per-query debug override
	debugLevel *DebugLevel
}

// QueryResult holds the rows returned by a query
type QueryResult struct {
	From string
	Rows []Row
}

// Count returns the number of rows
func (r *QueryResult) Count() int {
	return len(r.Rows)
}

// Query starts a new query over a table expression, e.g. "jobs j"
func (e *Engine) Query(from string) *QueryBuilder {
	return &QueryBuilder{
		engine:  e,
		from:    from,
		columns: []string{},
		joins:   []string{},
		where:   Predicate{},
		orderBy: []string{},
	}
}

// Columns sets the select list; defaults to *
func (qb *QueryBuilder) Columns(cols ...string) *QueryBuilder {
	qb.columns = append(qb.columns, cols...)
	return qb
}

// Join appends a join clause verbatim,
// e.g. "LEFT JOIN companies AS c ON c.handle = j.company_handle"
func (qb *QueryBuilder) Join(clause string) *QueryBuilder {
	qb.joins = append(qb.joins, clause)
	return qb
}

// Filter composes the criteria into the WHERE clause.
// Calling it again replaces the previous predicate.
func (qb *QueryBuilder) Filter(criteria ...Criterion) *QueryBuilder {
	qb.where = Compose(criteria...)
	return qb
}

// Where uses an already composed predicate
func (qb *QueryBuilder) Where(p Predicate) *QueryBuilder {
	qb.where = p
	return qb
}

// OrderBy adds a sort expression
// direction: "asc" or "desc"
func (qb *QueryBuilder) OrderBy(expr string, direction string) *QueryBuilder {
	if strings.EqualFold(direction, "desc") {
		expr += " DESC"
	}
	qb.orderBy = append(qb.orderBy, expr)
	return qb
}

// Debug enables SQL output for this query only
func (qb *QueryBuilder) Debug() *QueryBuilder {
	level := DebugSQL
	qb.debugLevel = &level
	return qb
}

// DebugTrace enables the full trace for this query only
func (qb *QueryBuilder) DebugTrace() *QueryBuilder {
	level := DebugTrace
	qb.debugLevel = &level
	return qb
}

// ToSQL generates SQL without executing
// Useful for debugging and testing
func (qb *QueryBuilder) ToSQL() (*Statement, error) {
	if qb.from == "" {
		return nil, fmt.Errorf("no table given")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	if len(qb.columns) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(strings.Join(qb.columns, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(qb.from)

	for _, join := range qb.joins {
		b.WriteString(" ")
		b.WriteString(join)
	}

	b.WriteString(qb.where.Where())

	if len(qb.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(qb.orderBy, ", "))
	}

	args := make([]any, len(qb.where.Values))
	copy(args, qb.where.Values)

	return &Statement{SQL: b.String(), Args: args}, nil
}

// Execute generates SQL and runs it against the database
func (qb *QueryBuilder) Execute(ctx context.Context) (*QueryResult, error) {
	if qb.engine.executor == nil {
		return nil, fmt.Errorf("not connected to database, call Engine.Connect() first")
	}

	stmt, err := qb.ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := qb.engine.executor.WithDebug(qb.getDebugContext()).Query(ctx, stmt)
	if err != nil {
		return nil, err
	}

	return &QueryResult{From: qb.from, Rows: rows}, nil
}

// getDebugContext resolves the query override against the engine setting
func (qb *QueryBuilder) getDebugContext() *DebugContext {
	if qb.debugLevel == nil {
		return qb.engine.Debug
	}
	dc := *qb.engine.Debug
	dc.Level = *qb.debugLevel
	return &dc
}
