// Package forecast wires schema alignment, a loaded model and prediction history
// into the sales prediction workflow.
package forecast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/storecast/internal/common"
	"github.com/Veraticus/storecast/internal/model"
)

// Catalog is the ordered list of source features a submission carries.
type Catalog []model.FeatureSpec

// DefaultCatalog returns the sales form features with their sample defaults.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "Item_Weight", Kind: model.FeatureNumeric, Default: model.Number(10.0)},
		{
			Name:    "Item_Fat_Content",
			Kind:    model.FeatureCategorical,
			Options: []string{"Low Fat", "Regular"},
			Default: model.Label("Low Fat"),
		},
		{Name: "Item_Visibility", Kind: model.FeatureNumeric, Default: model.Number(0.05)},
		{Name: "Item_MRP", Kind: model.FeatureNumeric, Default: model.Number(200.0)},
		{Name: "Outlet_Establishment_Year", Kind: model.FeatureNumeric, Default: model.Number(2004)},
		{
			Name:    "Item_Type",
			Kind:    model.FeatureCategorical,
			Options: []string{"Food", "Drink", "Non-Consumables"},
			Default: model.Label("Food"),
		},
		{
			Name: "Outlet_Identifier",
			Kind: model.FeatureCategorical,
			Options: []string{
				"OUT010", "OUT013", "OUT017", "OUT018", "OUT019",
				"OUT027", "OUT035", "OUT045", "OUT046", "OUT049",
			},
			Default: model.Label("OUT013"),
		},
		{
			Name:    "Outlet_Size",
			Kind:    model.FeatureCategorical,
			Options: []string{"Small", "Medium", "High"},
			Default: model.Label("Medium"),
		},
		{
			Name:    "Outlet_Location_Type",
			Kind:    model.FeatureCategorical,
			Options: []string{"Tier 1", "Tier 2", "Tier 3"},
			Default: model.Label("Tier 2"),
		},
		{
			Name:    "Outlet_Type",
			Kind:    model.FeatureCategorical,
			Options: []string{"Grocery Store", "Supermarket Type1", "Supermarket Type2", "Supermarket Type3"},
			Default: model.Label("Supermarket Type1"),
		},
	}
}

// Lookup returns the spec for name.
func (c Catalog) Lookup(name string) (model.FeatureSpec, bool) {
	for _, spec := range c {
		if spec.Name == name {
			return spec, true
		}
	}
	return model.FeatureSpec{}, false
}

// Names returns the feature names in order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, spec := range c {
		names[i] = spec.Name
	}
	return names
}

// CategoricalFields returns the names of categorical features in order.
func (c Catalog) CategoricalFields() []string {
	var fields []string
	for _, spec := range c {
		if spec.Kind == model.FeatureCategorical {
			fields = append(fields, spec.Name)
		}
	}
	return fields
}

// DefaultInput returns a record holding every feature's default value.
func (c Catalog) DefaultInput() model.RawInput {
	fields := make([]model.Field, len(c))
	for i, spec := range c {
		fields[i] = model.Field{Name: spec.Name, Value: spec.Default}
	}
	return model.NewRecord(fields...)
}

// ParseValue converts raw text into a value of the feature's kind.
// Categorical text is kept verbatim; alias resolution happens during alignment.
func (c Catalog) ParseValue(name, raw string) (model.Value, error) {
	spec, ok := c.Lookup(name)
	if !ok {
		return model.Value{}, fmt.Errorf("%w: unknown feature %q", common.ErrInvalidInput, name)
	}
	raw = strings.TrimSpace(raw)
	if spec.Kind == model.FeatureCategorical {
		if raw == "" {
			return model.Value{}, fmt.Errorf("%w: %s needs a value", common.ErrInvalidInput, name)
		}
		return model.Label(raw), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return model.Value{}, fmt.Errorf("%w: %s must be a number, got %q", common.ErrInvalidInput, name, raw)
	}
	return model.Number(v), nil
}

// Build starts from the defaults and applies values keyed by feature name.
func (c Catalog) Build(values map[string]string) (model.RawInput, error) {
	record := c.DefaultInput()
	for _, name := range c.Names() {
		raw, ok := values[name]
		if !ok {
			continue
		}
		v, err := c.ParseValue(name, raw)
		if err != nil {
			return model.RawInput{}, err
		}
		record.Set(name, v)
	}
	for name := range values {
		if _, ok := c.Lookup(name); !ok {
			return model.RawInput{}, fmt.Errorf("%w: unknown feature %q", common.ErrInvalidInput, name)
		}
	}
	return record, nil
}

// ParseAssignments parses name=value pairs and applies them over the defaults.
func (c Catalog) ParseAssignments(pairs []string) (model.RawInput, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return model.RawInput{}, fmt.Errorf("%w: expected name=value, got %q", common.ErrInvalidInput, pair)
		}
		values[name] = value
	}
	return c.Build(values)
}

// Inputs renders a record as strings, the form stored in history.
func Inputs(record model.RawInput) map[string]string {
	out := make(map[string]string, record.Len())
	for _, f := range record.Fields() {
		out[f.Name] = f.Value.String()
	}
	return out
}
