package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/storecast/internal/common"
	"github.com/Veraticus/storecast/internal/model"
	"github.com/Veraticus/storecast/internal/predictor"
	"github.com/Veraticus/storecast/internal/schema"
	"github.com/Veraticus/storecast/internal/service"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrNilModel is returned by New without a model.
var ErrNilModel = errors.New("model cannot be nil")

// Options configures a Service. Zero values select the built-in sales defaults.
type Options struct {
	History      service.HistoryStore
	Logger       *slog.Logger
	Now          func() time.Time
	Aliases      *schema.Resolver
	ModelPath    string
	AliasField   string
	Catalog      Catalog
	StaticSchema []string
	CacheSize    int
	// Retry bounds how long a locked history database may delay a prediction.
	Retry common.RetryOptions
}

// Service turns raw submissions into predictions against one loaded model.
// It is safe for concurrent use.
type Service struct {
	model     predictor.Model
	history   service.HistoryStore
	cache     *lru.Cache[string, float64]
	logger    *slog.Logger
	now       func() time.Time
	modelPath string
	source    schema.Source
	catalog   Catalog
	aligner   schema.Aligner
	retry     common.RetryOptions
	drift     schema.Drift
}

// New resolves the expected schema for m and builds a Service.
func New(m predictor.Model, opts Options) (*Service, error) {
	if m == nil {
		return nil, ErrNilModel
	}

	s := &Service{
		model:     m,
		history:   opts.History,
		logger:    opts.Logger,
		now:       opts.Now,
		modelPath: opts.ModelPath,
		catalog:   opts.Catalog,
		retry:     opts.Retry,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.retry == (common.RetryOptions{}) {
		s.retry = common.RetryOptions{MaxAttempts: 3, InitialDelay: 25 * time.Millisecond, MaxDelay: 200 * time.Millisecond}
	}
	if len(s.catalog) == 0 {
		s.catalog = DefaultCatalog()
	}

	static := opts.StaticSchema
	if len(static) == 0 {
		static = DefaultStaticSchema()
	}
	var modelColumns []string
	if provider, ok := m.(predictor.SchemaProvider); ok {
		modelColumns = provider.FeatureNames()
	}
	expected, source, drift, err := schema.Resolve(modelColumns, static)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve expected schema: %w", err)
	}
	s.source = source
	s.drift = drift
	if !drift.IsZero() {
		s.logger.Warn("Static schema disagrees with model features",
			"missing_from_static", drift.MissingFromStatic,
			"extra_in_static", drift.ExtraInStatic,
			"order_differs", drift.OrderDiffers)
	}

	aliasField := opts.AliasField
	if aliasField == "" {
		aliasField = "Item_Fat_Content"
	}
	resolver := schema.Resolver{Table: schema.FatContentAliases(), Policy: schema.PolicyPassthrough}
	if opts.Aliases != nil {
		resolver = *opts.Aliases
	}
	s.aligner = schema.Aligner{
		Schema:            expected,
		Aliases:           resolver,
		AliasField:        aliasField,
		CategoricalFields: s.catalog.CategoricalFields(),
	}

	if opts.CacheSize > 0 {
		cache, err := lru.New[string, float64](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create prediction cache: %w", err)
		}
		s.cache = cache
	}

	s.logger.Debug("Forecast service ready",
		"schema_source", source,
		"columns", expected.Len(),
		"cache_size", opts.CacheSize)

	return s, nil
}

// Predict aligns input, evaluates the model and records the result.
// History failures are logged and never fail the prediction.
func (s *Service) Predict(ctx context.Context, input model.RawInput) (*model.Prediction, error) {
	row, report, err := s.aligner.Align(input)
	if err != nil {
		return nil, fmt.Errorf("failed to align input: %w", err)
	}
	if len(report.Dropped) > 0 {
		s.logger.Debug("Dropped columns not in schema", "columns", report.Dropped)
	}

	p := &model.Prediction{
		CreatedAt: s.now(),
		Inputs:    Inputs(input),
		ModelPath: s.modelPath,
	}

	key := row.Key()
	if v, ok := s.cachedValue(key); ok {
		p.Value = v
		p.Cached = true
	} else {
		v, err := s.model.Predict(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("failed to predict: %w", err)
		}
		p.Value = v
		if s.cache != nil {
			s.cache.Add(key, v)
		}
	}

	if s.history != nil {
		save := func() error { return s.history.SavePrediction(ctx, p) }
		if err := common.WithRetry(ctx, save, s.retry); err != nil {
			s.logger.Warn("Failed to record prediction", "error", err)
		}
	}

	return p, nil
}

func (s *Service) cachedValue(key string) (float64, bool) {
	if s.cache == nil {
		return 0, false
	}
	return s.cache.Get(key)
}

// Align exposes the encoded row for input without predicting.
func (s *Service) Align(input model.RawInput) (schema.EncodedRow, schema.Report, error) {
	return s.aligner.Align(input)
}

// Catalog returns the features this service accepts.
func (s *Service) Catalog() Catalog {
	return s.catalog
}

// Schema returns the authoritative expected schema.
func (s *Service) Schema() schema.Schema {
	return s.aligner.Schema
}

// Source reports where the schema came from.
func (s *Service) Source() schema.Source {
	return s.source
}

// Drift returns the static list's disagreement with the model, if any.
func (s *Service) Drift() schema.Drift {
	return s.drift
}

// ModelPath returns the artifact path the model was loaded from.
func (s *Service) ModelPath() string {
	return s.modelPath
}
