// Package service defines the interfaces shared between application layers.
package service

import (
	"context"

	"github.com/Veraticus/storecast/internal/model"
)

// HistoryStore defines the contract for the prediction history persistence layer.
type HistoryStore interface {
	SavePrediction(ctx context.Context, p *model.Prediction) error
	GetRecentPredictions(ctx context.Context, limit int) ([]model.Prediction, error)
	GetPredictionByID(ctx context.Context, id int64) (*model.Prediction, error)
	CountPredictions(ctx context.Context) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Predictor produces a prediction from one raw form submission.
type Predictor interface {
	Predict(ctx context.Context, input model.RawInput) (*model.Prediction, error)
}
