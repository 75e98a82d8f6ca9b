// Package schema aligns raw form input with the fixed column layout a trained model expects.
package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Schema errors.
var (
	ErrEmptyColumn     = errors.New("column name cannot be empty")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrNoSchema        = errors.New("no expected schema available")
)

// Schema is the ordered, duplicate-free list of columns a model requires.
type Schema struct {
	index   map[string]int
	columns []string
}

// New validates columns and returns a Schema preserving their order.
func New(columns []string) (Schema, error) {
	s := Schema{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if strings.TrimSpace(c) == "" {
			return Schema{}, fmt.Errorf("%w: position %d", ErrEmptyColumn, i)
		}
		if prev, ok := s.index[c]; ok {
			return Schema{}, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateColumn, c, prev, i)
		}
		s.index[c] = i
		s.columns[i] = c
	}
	return s, nil
}

// MustNew is New for literal schemas known to be valid.
func MustNew(columns []string) Schema {
	s, err := New(columns)
	if err != nil {
		panic(err)
	}
	return s
}

// Columns returns a copy of the column names in order.
func (s Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Len returns the number of columns.
func (s Schema) Len() int {
	return len(s.columns)
}

// Contains reports whether name is an expected column.
func (s Schema) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Position returns the index of name, or -1.
func (s Schema) Position(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Equal reports whether both schemas list the same columns in the same order.
func (s Schema) Equal(other Schema) bool {
	if len(s.columns) != len(other.columns) {
		return false
	}
	for i := range s.columns {
		if s.columns[i] != other.columns[i] {
			return false
		}
	}
	return true
}

// EncodedRow is one model-ready row whose columns are exactly a Schema's columns.
type EncodedRow struct {
	Columns []string
	Values  []float64
}

// Get returns the value of the named column.
func (r EncodedRow) Get(name string) (float64, bool) {
	for i, c := range r.Columns {
		if c == name {
			return r.Values[i], true
		}
	}
	return 0, false
}

// Map returns the row as column name to value.
func (r EncodedRow) Map() map[string]float64 {
	out := make(map[string]float64, len(r.Columns))
	for i, c := range r.Columns {
		out[c] = r.Values[i]
	}
	return out
}

// Key renders the row as a stable string, suitable for cache lookups.
func (r EncodedRow) Key() string {
	var b strings.Builder
	for i, c := range r.Columns {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%s=%g", c, r.Values[i])
	}
	return b.String()
}
