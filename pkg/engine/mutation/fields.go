package mutation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Fields is an insertion-ordered field→value set. The order of keys decides
// placeholder numbering, so it is never derived from map iteration.
// The zero value is ready to use.
type Fields struct {
	keys   []string
	values map[string]any
}

// NewFields returns an empty set
func NewFields() *Fields {
	return &Fields{}
}

// Set adds a field. Setting an existing field replaces its value and keeps
// its original position.
func (f *Fields) Set(field string, value any) *Fields {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, ok := f.values[field]; !ok {
		f.keys = append(f.keys, field)
	}
	f.values[field] = value
	return f
}

// Get returns the value for field
func (f *Fields) Get(field string) (any, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.values[field]
	return v, ok
}

// Len returns the number of fields
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Keys returns the fields in insertion order
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	keys := make([]string, len(f.keys))
	copy(keys, f.keys)
	return keys
}

// Values returns the values in insertion order
func (f *Fields) Values() []any {
	if f == nil {
		return nil
	}
	values := make([]any, 0, len(f.keys))
	for _, k := range f.keys {
		values = append(values, f.values[k])
	}
	return values
}

// String renders the set as {k=v, ...} in order
func (f *Fields) String() string {
	parts := make([]string, 0, f.Len())
	for _, k := range f.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, f.values[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// UnmarshalJSON decodes a JSON object keeping its key order. Values must be
// scalars; integral numbers decode to int64, others to float64.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fields: expected a JSON object")
	}

	*f = Fields{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)

		tok, err = dec.Token()
		if err != nil {
			return err
		}
		value, err := scalar(key, tok)
		if err != nil {
			return err
		}
		f.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the set as a JSON object in insertion order
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func scalar(key string, tok json.Token) (any, error) {
	switch v := tok.(type) {
	case json.Delim:
		return nil, fmt.Errorf("fields: %q must be a scalar, got %s", key, v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		return v.Float64()
	default:
		// string, bool or nil
		return v, nil
	}
}
