package schema

import "fmt"

// Source names where the authoritative schema came from.
type Source string

const (
	// SourceModel means the loaded model enumerated its own feature names.
	SourceModel Source = "model"
	// SourceStatic means the configured literal list was used.
	SourceStatic Source = "static"
)

// Drift describes how the static schema disagrees with the model's.
type Drift struct {
	MissingFromStatic []string
	ExtraInStatic     []string
	OrderDiffers      bool
}

// IsZero reports whether the two lists agreed.
func (d Drift) IsZero() bool {
	return len(d.MissingFromStatic) == 0 && len(d.ExtraInStatic) == 0 && !d.OrderDiffers
}

// Resolve picks the authoritative schema. The model's feature names win when present;
// the static list is the fallback and is only compared for drift otherwise.
func Resolve(modelColumns, staticColumns []string) (Schema, Source, Drift, error) {
	if len(modelColumns) == 0 && len(staticColumns) == 0 {
		return Schema{}, "", Drift{}, ErrNoSchema
	}

	if len(modelColumns) == 0 {
		s, err := New(staticColumns)
		if err != nil {
			return Schema{}, "", Drift{}, fmt.Errorf("static schema: %w", err)
		}
		return s, SourceStatic, Drift{}, nil
	}

	s, err := New(modelColumns)
	if err != nil {
		return Schema{}, "", Drift{}, fmt.Errorf("model schema: %w", err)
	}
	if len(staticColumns) == 0 {
		return s, SourceModel, Drift{}, nil
	}
	return s, SourceModel, Compare(s, staticColumns), nil
}

// Compare reports the differences between an authoritative schema and a static list.
func Compare(authoritative Schema, staticColumns []string) Drift {
	var d Drift
	static := make(map[string]struct{}, len(staticColumns))
	for _, c := range staticColumns {
		static[c] = struct{}{}
		if !authoritative.Contains(c) {
			d.ExtraInStatic = append(d.ExtraInStatic, c)
		}
	}
	for _, c := range authoritative.Columns() {
		if _, ok := static[c]; !ok {
			d.MissingFromStatic = append(d.MissingFromStatic, c)
		}
	}

	if len(d.MissingFromStatic) == 0 && len(d.ExtraInStatic) == 0 {
		cols := authoritative.Columns()
		if len(cols) != len(staticColumns) {
			d.OrderDiffers = true
			return d
		}
		for i := range cols {
			if cols[i] != staticColumns[i] {
				d.OrderDiffers = true
				break
			}
		}
	}
	return d
}
