package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/storecast/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidPrediction = errors.New("invalid prediction")
	ErrInvalidLimit      = errors.New("limit must be positive")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validatePrediction(p *model.Prediction) error {
	if p == nil {
		return fmt.Errorf("%w: prediction", ErrNilParameter)
	}
	if strings.TrimSpace(p.ModelPath) == "" {
		return fmt.Errorf("%w: missing model path", ErrInvalidPrediction)
	}
	if len(p.Inputs) == 0 {
		return fmt.Errorf("%w: missing inputs", ErrInvalidPrediction)
	}
	if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
		return fmt.Errorf("%w: value is not finite", ErrInvalidPrediction)
	}
	return nil
}
