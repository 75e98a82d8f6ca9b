package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/storecast/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// predictTimeout bounds one prediction, history write included.
const predictTimeout = 10 * time.Second

// predict runs the prediction off the update loop.
func (m Model) predict(input model.RawInput) tea.Cmd {
	predictor := m.config.Predictor
	parent := m.ctx
	seq := m.seq
	return func() tea.Msg {
		if predictor == nil {
			return predictionMsg{seq: seq, err: fmt.Errorf("predictor not configured")}
		}

		ctx, cancel := context.WithTimeout(parent, predictTimeout)
		defer cancel()

		p, err := predictor.Predict(ctx, input)
		return predictionMsg{seq: seq, prediction: p, err: err}
	}
}
