package tui

import "github.com/Veraticus/storecast/internal/model"

// predictionMsg carries the outcome of one prediction request.
type predictionMsg struct {
	prediction *model.Prediction
	err        error
	seq        int
}

// State represents the current state of the form.
type State int

const (
	StateEditing State = iota
	StatePredicting
	StateResult
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "Edit"
	case StatePredicting:
		return "Predicting"
	case StateResult:
		return "Result"
	default:
		return "Unknown"
	}
}
