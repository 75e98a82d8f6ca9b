package schema

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Veraticus/storecast/internal/model"
)

// Alignment errors.
var (
	ErrMissingField   = errors.New("missing field")
	ErrUnencodedLabel = errors.New("categorical value in a field that is not encoded")
)

// IndicatorSeparator joins a field name and a label into an indicator column name.
const IndicatorSeparator = "_"

// IndicatorColumn returns the one-hot column name for field=label.
func IndicatorColumn(field, label string) string {
	return field + IndicatorSeparator + label
}

// WideRecord is a record after categorical expansion: every column is numeric.
type WideRecord struct {
	values map[string]float64
	names  []string
}

func newWideRecord(capacity int) WideRecord {
	return WideRecord{
		values: make(map[string]float64, capacity),
		names:  make([]string, 0, capacity),
	}
}

func (w *WideRecord) set(name string, v float64) {
	if _, ok := w.values[name]; !ok {
		w.names = append(w.names, name)
	}
	w.values[name] = v
}

// Get returns the value of the named column.
func (w WideRecord) Get(name string) (float64, bool) {
	v, ok := w.values[name]
	return v, ok
}

// Names returns the emitted columns in emission order.
func (w WideRecord) Names() []string {
	out := make([]string, len(w.names))
	copy(out, w.names)
	return out
}

// Len returns the number of emitted columns.
func (w WideRecord) Len() int {
	return len(w.names)
}

// NormalizeCategorical replaces the value of field with its canonical label.
// Other fields are untouched and the input record is not modified.
func NormalizeCategorical(record model.Record, field string, aliases Resolver) (model.Record, error) {
	v, ok := record.Get(field)
	if !ok {
		return model.Record{}, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	out := record.Clone()
	if !v.IsLabel() {
		return out, nil
	}
	canonical, err := aliases.Resolve(v.Label)
	if err != nil {
		return model.Record{}, fmt.Errorf("normalize %s: %w", field, err)
	}
	out.Set(field, model.Label(canonical))
	return out, nil
}

// ExpandCategorical replaces each categorical field with a single indicator column
// set to 1 for the value present in this record. Numeric fields pass through.
func ExpandCategorical(record model.Record, categoricalFields []string) (WideRecord, error) {
	categorical := make(map[string]struct{}, len(categoricalFields))
	for _, f := range categoricalFields {
		if _, ok := record.Get(f); !ok {
			return WideRecord{}, fmt.Errorf("%w: %s", ErrMissingField, f)
		}
		categorical[f] = struct{}{}
	}

	wide := newWideRecord(record.Len())
	for _, f := range record.Fields() {
		if _, ok := categorical[f.Name]; ok {
			wide.set(IndicatorColumn(f.Name, indicatorLabel(f.Value)), 1)
			continue
		}
		if !f.Value.IsNumber() {
			return WideRecord{}, fmt.Errorf("%w: %s=%q", ErrUnencodedLabel, f.Name, f.Value.String())
		}
		wide.set(f.Name, f.Value.Number)
	}
	return wide, nil
}

func indicatorLabel(v model.Value) string {
	if v.IsNumber() {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Label
}

// Reindex lays wide out in schema order. Columns missing from wide get fill;
// columns not in the schema are dropped.
func Reindex(wide WideRecord, schema Schema, fill float64) EncodedRow {
	row := EncodedRow{
		Columns: schema.Columns(),
		Values:  make([]float64, schema.Len()),
	}
	for i, c := range row.Columns {
		if v, ok := wide.Get(c); ok {
			row.Values[i] = v
			continue
		}
		row.Values[i] = fill
	}
	return row
}

// Report lists the silent adjustments Reindex made for one row.
type Report struct {
	Dropped []string
	Filled  []string
}

// Aligner runs normalization, expansion and reindexing against one schema.
type Aligner struct {
	Schema            Schema
	Aliases           Resolver
	AliasField        string
	CategoricalFields []string
	FillValue         float64
}

// Align turns a raw record into a model-ready row.
func (a Aligner) Align(record model.Record) (EncodedRow, Report, error) {
	normalized := record
	if a.AliasField != "" {
		var err error
		normalized, err = NormalizeCategorical(record, a.AliasField, a.Aliases)
		if err != nil {
			return EncodedRow{}, Report{}, err
		}
	}

	wide, err := ExpandCategorical(normalized, a.CategoricalFields)
	if err != nil {
		return EncodedRow{}, Report{}, err
	}

	var report Report
	for _, name := range wide.Names() {
		if !a.Schema.Contains(name) {
			report.Dropped = append(report.Dropped, name)
		}
	}
	for _, c := range a.Schema.Columns() {
		if _, ok := wide.Get(c); !ok {
			report.Filled = append(report.Filled, c)
		}
	}

	return Reindex(wide, a.Schema, a.FillValue), report, nil
}
