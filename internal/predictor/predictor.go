// Package predictor loads trained regression artifacts and evaluates them on aligned rows.
package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Veraticus/storecast/internal/common"
	"github.com/Veraticus/storecast/internal/schema"
)

// ErrSchemaMismatch is returned when a row's columns differ from the model's feature names.
var ErrSchemaMismatch = errors.New("row columns do not match model features")

// Artifact kinds.
const (
	KindLinear       = "linear"
	KindTreeEnsemble = "tree_ensemble"
)

// Model predicts a single regression value for one aligned row.
type Model interface {
	Predict(ctx context.Context, row schema.EncodedRow) (float64, error)
}

// SchemaProvider is implemented by models that know their own feature names.
type SchemaProvider interface {
	FeatureNames() []string
}

type header struct {
	Kind         string   `json:"kind"`
	FeatureNames []string `json:"feature_names"`
}

// Load reads the artifact at path.
func Load(path string) (Model, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.NewUserError("Model file not found. Please check the file path.",
				fmt.Errorf("%w: %s", common.ErrModelNotFound, path))
		}
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}

	m, err := Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes an artifact already in memory.
func Parse(payload []byte) (Model, error) {
	var h header
	if err := json.Unmarshal(payload, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidModel, err)
	}
	if len(h.FeatureNames) == 0 {
		return nil, fmt.Errorf("%w: feature_names is empty", common.ErrInvalidModel)
	}
	if _, err := schema.New(h.FeatureNames); err != nil {
		return nil, fmt.Errorf("%w: feature_names: %v", common.ErrInvalidModel, err)
	}

	switch h.Kind {
	case KindLinear:
		return parseLinear(payload)
	case KindTreeEnsemble:
		return parseTreeEnsemble(payload)
	case "":
		return nil, fmt.Errorf("%w: missing kind", common.ErrInvalidModel)
	default:
		return nil, fmt.Errorf("%w: unsupported kind %q", common.ErrInvalidModel, h.Kind)
	}
}

// features is embedded by every model to share column checks.
type features struct {
	names []string
}

// FeatureNames returns a copy of the model's columns in order.
func (f features) FeatureNames() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

func (f features) check(ctx context.Context, row schema.EncodedRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(row.Columns) != len(f.names) || len(row.Values) != len(row.Columns) {
		return fmt.Errorf("%w: got %d columns, want %d", ErrSchemaMismatch, len(row.Columns), len(f.names))
	}
	for i, c := range row.Columns {
		if c != f.names[i] {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrSchemaMismatch, i, c, f.names[i])
		}
	}
	return nil
}
