package engine

import (
	"strconv"
	"strings"
)

// Placeholder returns the positional parameter marker for a 1-based index.
func Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// Statement is a fully assembled SQL statement and its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Criterion is one independently optional filter condition.
// An absent criterion contributes nothing to the composed predicate.
type Criterion struct {
	present bool
	expr    string // fragment text, followed by the placeholder when bound
	bound   bool
	value   any
}

// AtLeast matches rows whose column is >= *v. A nil v means absent.
func AtLeast[T any](column string, v *T) Criterion {
	if v == nil {
		return Criterion{}
	}
	return Criterion{present: true, expr: column + " >= ", bound: true, value: *v}
}

// Equals matches rows whose column is = *v. A nil v means absent.
func Equals[T any](column string, v *T) Criterion {
	if v == nil {
		return Criterion{}
	}
	return Criterion{present: true, expr: column + " = ", bound: true, value: *v}
}

// Flag adds expr verbatim when *on is true. It never consumes a placeholder.
func Flag(expr string, on *bool) Criterion {
	if on == nil || !*on {
		return Criterion{}
	}
	return Criterion{present: true, expr: expr}
}

// ContainsFold matches rows whose column contains *s, ignoring case.
// Matching uses PostgreSQL ILIKE; the argument is wrapped in % wildcards.
func ContainsFold(column string, s *string) Criterion {
	if s == nil {
		return Criterion{}
	}
	return Criterion{present: true, expr: column + " ILIKE ", bound: true, value: "%" + *s + "%"}
}

// Present reports whether the criterion contributes to a predicate
func (c Criterion) Present() bool { return c.present }

// Predicate is a composed list of AND-ed boolean fragments and the
// arguments for their placeholders, numbered from $1.
type Predicate struct {
	Fragments []string
	Values    []any
}

// Compose evaluates criteria in the given order. The placeholder counter
// advances only for criteria that bind a value.
func Compose(criteria ...Criterion) Predicate {
	p := Predicate{Fragments: []string{}, Values: []any{}}
	for _, c := range criteria {
		if !c.present {
			continue
		}
		if !c.bound {
			p.Fragments = append(p.Fragments, c.expr)
			continue
		}
		p.Values = append(p.Values, c.value)
		p.Fragments = append(p.Fragments, c.expr+Placeholder(len(p.Values)))
	}
	return p
}

// Empty reports whether no criterion was present
func (p Predicate) Empty() bool {
	return len(p.Fragments) == 0
}

// Where renders " WHERE a AND b", or "" for an empty predicate.
func (p Predicate) Where() string {
	if p.Empty() {
		return ""
	}
	return " WHERE " + strings.Join(p.Fragments, " AND ")
}
