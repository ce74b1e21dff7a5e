package mutation

import (
	"strings"

	"github.com/jobly-api/jobly/pkg/engine"
)

// NameMap translates caller-facing field names to column names.
// Fields without an entry are used verbatim.
type NameMap map[string]string

// Column resolves field, falling back to the field itself
func (m NameMap) Column(field string) string {
	if col, ok := m[field]; ok && col != "" {
		return col
	}
	return field
}

// Assignment is a compiled SET list: one `"col"=$n` fragment per field and
// the values for $1..$n in the same order.
type Assignment struct {
	Fragments []string
	Values    []any
}

// SetCols joins the fragments into a SET clause body
func (a *Assignment) SetCols() string {
	return strings.Join(a.Fragments, ", ")
}

// Next returns the first placeholder index after the assignment's values,
// for parameters the caller appends (e.g. WHERE "id" = $Next).
func (a *Assignment) Next() int {
	return len(a.Values) + 1
}

// CompileUpdate turns an ordered field set into a SET list.
// Column existence is not checked here; unknown fields pass through.
func CompileUpdate(fields *Fields, names NameMap) (*Assignment, error) {
	if fields.Len() == 0 {
		return nil, &engine.InvalidInputError{Reason: "no data supplied for update"}
	}

	keys := fields.Keys()
	a := &Assignment{
		Fragments: make([]string, 0, len(keys)),
		Values:    make([]any, 0, len(keys)),
	}
	for i, key := range keys {
		value, _ := fields.Get(key)
		a.Fragments = append(a.Fragments, engine.QuoteIdentifier(names.Column(key))+"="+engine.Placeholder(i+1))
		a.Values = append(a.Values, value)
	}
	return a, nil
}
