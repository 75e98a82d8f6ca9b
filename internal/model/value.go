package model

import (
	"fmt"
	"strconv"
)

// ValueKind distinguishes numeric feature values from categorical labels.
type ValueKind string

const (
	// KindNumber marks a numeric scalar.
	KindNumber ValueKind = "number"
	// KindLabel marks a categorical label.
	KindLabel ValueKind = "label"
)

// Value is a single raw feature value as entered by the user.
type Value struct {
	Kind   ValueKind
	Label  string
	Number float64
}

// Number returns a numeric value.
func Number(v float64) Value {
	return Value{Kind: KindNumber, Number: v}
}

// Label returns a categorical value.
func Label(s string) Value {
	return Value{Kind: KindLabel, Label: s}
}

// IsNumber reports whether the value holds a numeric scalar.
func (v Value) IsNumber() bool {
	return v.Kind == KindNumber
}

// IsLabel reports whether the value holds a categorical label.
func (v Value) IsLabel() bool {
	return v.Kind == KindLabel
}

// String renders the value the way it would be typed into the form.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindLabel:
		return v.Label
	default:
		return fmt.Sprintf("<invalid %q>", string(v.Kind))
	}
}

// Field is one named value inside a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is a single row of feature name to value. Field order is insertion order.
type Record struct {
	fields []Field
}

// NewRecord builds a record from fields, later duplicates replacing earlier ones.
func NewRecord(fields ...Field) Record {
	var r Record
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// Get returns the value stored under name.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Set replaces the value for name in place, or appends it.
func (r *Record) Set(name string, v Value) {
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields[i].Value = v
			return
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

// Names returns the field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Fields returns a copy of the fields in order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	return Record{fields: r.Fields()}
}

// RawInput is the record collected from one user submission.
type RawInput = Record
