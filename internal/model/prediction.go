// Package model defines the core domain types used throughout the application.
package model

import "time"

// Prediction is the outcome of one submission.
type Prediction struct {
	CreatedAt time.Time
	Inputs    map[string]string
	ModelPath string
	ID        int64
	Value     float64
	Cached    bool
}

// FeatureKind describes how the form collects a source feature.
type FeatureKind string

const (
	// FeatureNumeric is collected through a numeric text input.
	FeatureNumeric FeatureKind = "numeric"
	// FeatureCategorical is collected through a single-choice selector.
	FeatureCategorical FeatureKind = "categorical"
)

// FeatureSpec describes one source feature shown on the form.
type FeatureSpec struct {
	Name    string
	Kind    FeatureKind
	Options []string
	Default Value
}
