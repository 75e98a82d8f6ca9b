package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/storecast/internal/common"
	"github.com/Veraticus/storecast/internal/model"
	"github.com/mattn/go-sqlite3"
)

// SavePrediction records p and sets its ID. A zero CreatedAt is set to now.
func (s *SQLiteStorage) SavePrediction(ctx context.Context, p *model.Prediction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePrediction(p); err != nil {
		return err
	}
	return s.savePredictionTx(ctx, s.db, p)
}

func (s *SQLiteStorage) savePredictionTx(ctx context.Context, q queryable, p *model.Prediction) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.CreatedAt = p.CreatedAt.UTC()

	inputs, err := json.Marshal(p.Inputs)
	if err != nil {
		return fmt.Errorf("failed to encode inputs: %w", err)
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO predictions (created_at, model_path, inputs, predicted_value)
		VALUES (?, ?, ?, ?)
	`, p.CreatedAt, p.ModelPath, string(inputs), p.Value)
	if err != nil {
		return markBusy(fmt.Errorf("failed to save prediction: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get prediction id: %w", err)
	}
	p.ID = id
	return nil
}

// markBusy flags lock contention as transient so callers may retry.
func markBusy(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return common.Transient(err)
	}
	return err
}

// GetRecentPredictions returns up to limit predictions, newest first.
func (s *SQLiteStorage) GetRecentPredictions(ctx context.Context, limit int) ([]model.Prediction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, model_path, inputs, predicted_value
		FROM predictions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var predictions []model.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}
	return predictions, nil
}

// GetPredictionByID returns one prediction or common.ErrNotFound.
func (s *SQLiteStorage) GetPredictionByID(ctx context.Context, id int64) (*model.Prediction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, model_path, inputs, predicted_value
		FROM predictions
		WHERE id = ?
	`, id)

	p, err := scanPrediction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("prediction %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CountPredictions returns the number of stored predictions.
func (s *SQLiteStorage) CountPredictions(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count predictions: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPrediction(sc scanner) (*model.Prediction, error) {
	var (
		p      model.Prediction
		inputs string
	)
	err := sc.Scan(&p.ID, &p.CreatedAt, &p.ModelPath, &inputs, &p.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan prediction: %w", err)
	}
	if err := json.Unmarshal([]byte(inputs), &p.Inputs); err != nil {
		return nil, fmt.Errorf("failed to decode inputs of prediction %d: %w", p.ID, err)
	}
	return &p, nil
}
