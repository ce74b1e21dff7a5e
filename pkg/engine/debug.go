package engine

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// DebugLevel defines verbosity
type DebugLevel int

const (
	DebugNone DebugLevel = iota
	DebugSQL
	DebugTrace
	DebugExplain
)

// DebugContext holds debug configuration
type DebugContext struct {
	Level  DebugLevel
	Writer io.Writer // Where to write (stdout, file, etc)

	ColorOutput bool
}

// DefaultDebugContext for production
func DefaultDebugContext() *DebugContext {
	return &DebugContext{
		Level:       DebugNone,
		Writer:      os.Stdout,
		ColorOutput: true,
	}
}

// DebugContextFromEnv reads JOBLY_DEBUG (1, trace, explain)
func DebugContextFromEnv() *DebugContext {
	dc := DefaultDebugContext()
	dc.Level = ParseDebugLevel(os.Getenv("JOBLY_DEBUG"))
	return dc
}

// ParseDebugLevel maps a flag or env value to a level
func ParseDebugLevel(s string) DebugLevel {
	switch strings.ToLower(s) {
	case "1", "sql", "debug":
		return DebugSQL
	case "trace":
		return DebugTrace
	case "explain":
		return DebugExplain
	default:
		return DebugNone
	}
}

// LogSQL logs generated SQL
func (dc *DebugContext) LogSQL(sql string) {
	if dc.Level < DebugSQL {
		return
	}

	dc.heading("SQL", ansiCyan)
	fmt.Fprintf(dc.Writer, "%s\n\n", sql)
}

// LogStatement logs a statement together with its numbered arguments
func (dc *DebugContext) LogStatement(stmt *Statement) {
	if dc.Level < DebugSQL {
		return
	}

	dc.LogSQL(stmt.SQL)
	for i, arg := range stmt.Args {
		fmt.Fprintf(dc.Writer, "  %s = %#v\n", Placeholder(i+1), arg)
	}
	if len(stmt.Args) > 0 {
		fmt.Fprintln(dc.Writer)
	}
}

// LogQuery logs timing and row count once a statement has run
func (dc *DebugContext) LogQuery(sql string, duration time.Duration, rowCount int) {
	if dc.Level < DebugTrace {
		return
	}

	fmt.Fprintf(dc.Writer, "\n")
	fmt.Fprintf(dc.Writer, "┌─────────────────────────────────────\n")
	fmt.Fprintf(dc.Writer, "│ Query Trace\n")
	fmt.Fprintf(dc.Writer, "├─────────────────────────────────────\n")
	fmt.Fprintf(dc.Writer, "│ SQL:\n│   %s\n", sql)
	fmt.Fprintf(dc.Writer, "│ Duration: %v\n", duration)
	fmt.Fprintf(dc.Writer, "│ Rows: %d\n", rowCount)
	fmt.Fprintf(dc.Writer, "└─────────────────────────────────────\n\n")
}

// LogPlan logs the planner output for a statement, one plan line per row
func (dc *DebugContext) LogPlan(plan []string) {
	if dc.Level < DebugExplain {
		return
	}

	dc.heading("PLAN", ansiMagenta)
	for _, line := range plan {
		fmt.Fprintf(dc.Writer, "  %s\n", line)
	}
	fmt.Fprintln(dc.Writer)
}

// LogPlanError reports an EXPLAIN that could not be run
func (dc *DebugContext) LogPlanError(err error) {
	if dc.Level < DebugExplain {
		return
	}

	dc.heading("PLAN", ansiMagenta)
	fmt.Fprintf(dc.Writer, "  unavailable: %v\n\n", err)
}

const (
	ansiCyan    = "\033[36m"
	ansiMagenta = "\033[35m"
	ansiReset   = "\033[0m"
)

func (dc *DebugContext) heading(tag, color string) {
	if dc.ColorOutput {
		fmt.Fprintf(dc.Writer, "\n%s[%s]%s\n", color, tag, ansiReset)
		return
	}
	fmt.Fprintf(dc.Writer, "\n[%s]\n", tag)
}
