package predictor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/storecast/internal/common"
	"github.com/Veraticus/storecast/internal/schema"
)

// Linear is intercept + Σ weight·value.
type Linear struct {
	features
	weights   []float64
	intercept float64
}

type linearArtifact struct {
	Coefficients map[string]float64 `json:"coefficients"`
	Kind         string             `json:"kind"`
	FeatureNames []string           `json:"feature_names"`
	Intercept    float64            `json:"intercept"`
}

// NewLinear builds a linear model. Features without a coefficient weigh 0.
func NewLinear(featureNames []string, intercept float64, coefficients map[string]float64) (*Linear, error) {
	s, err := schema.New(featureNames)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidModel, err)
	}
	weights := make([]float64, s.Len())
	for name, w := range coefficients {
		pos := s.Position(name)
		if pos < 0 {
			return nil, fmt.Errorf("%w: coefficient for unknown feature %q", common.ErrInvalidModel, name)
		}
		weights[pos] = w
	}
	return &Linear{
		features:  features{names: s.Columns()},
		weights:   weights,
		intercept: intercept,
	}, nil
}

func parseLinear(payload []byte) (*Linear, error) {
	var a linearArtifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidModel, err)
	}
	return NewLinear(a.FeatureNames, a.Intercept, a.Coefficients)
}

// Predict implements Model.
func (m *Linear) Predict(ctx context.Context, row schema.EncodedRow) (float64, error) {
	if err := m.check(ctx, row); err != nil {
		return 0, err
	}
	sum := m.intercept
	for i, v := range row.Values {
		sum += m.weights[i] * v
	}
	return sum, nil
}
