package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Veraticus/storecast/internal/forecast"
	"github.com/Veraticus/storecast/internal/model"
	"github.com/Veraticus/storecast/internal/tui/themes"
	"github.com/Veraticus/storecast/internal/tui/tuitest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePredictor struct {
	err    error
	inputs []model.RawInput
	value  float64
	mu     sync.Mutex
}

func (p *fakePredictor) Predict(_ context.Context, input model.RawInput) (*model.Prediction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs = append(p.inputs, input)
	if p.err != nil {
		return nil, p.err
	}
	return &model.Prediction{Value: p.value, Inputs: forecast.Inputs(input)}, nil
}

func (p *fakePredictor) last(t *testing.T) model.RawInput {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.inputs)
	return p.inputs[len(p.inputs)-1]
}

func newTestModel(p *fakePredictor) Model {
	cfg := defaultConfig()
	cfg.Predictor = p
	cfg.Theme = themes.Default
	cfg.ModelPath = "trained_sales_model.json"
	return newModel(context.Background(), cfg)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func deliverPrediction(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range tuitest.Collect(cmd) {
		if pm, ok := msg.(predictionMsg); ok {
			next, _ := m.Update(pm)
			return next.(Model)
		}
	}
	t.Fatal("no prediction message produced")
	return m
}

func toTrigger(m Model) []tea.KeyMsg {
	return tuitest.Repeat(tea.KeyMsg{Type: tea.KeyDown}, len(m.fields))
}

func TestModel_PredictDefaults(t *testing.T) {
	p := &fakePredictor{value: 200}
	m := newTestModel(p)

	m, _ = press(t, m, toTrigger(m)...)
	require.True(t, m.onTrigger())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StatePredicting, m.State())
	assert.Contains(t, m.View(), "Predicting...")

	m = deliverPrediction(t, m, cmd)
	assert.Equal(t, StateResult, m.State())
	require.NotNil(t, m.Prediction())

	view := m.View()
	assert.Contains(t, view, "Predicted Sales: $200.00")
	assert.Contains(t, view, "Sales Amount")
	assert.Contains(t, view, "Prediction Visualization")

	input := p.last(t)
	assert.Equal(t, forecast.DefaultCatalog().Names(), input.Names())
	mrp, _ := input.Get("Item_MRP")
	assert.Equal(t, model.Number(200), mrp)
}

func TestModel_SelectorCycles(t *testing.T) {
	p := &fakePredictor{value: 1}
	m := newTestModel(p)

	// Item_Fat_Content is the second field.
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = press(t, m, tuitest.Repeat(tea.KeyMsg{Type: tea.KeyDown}, len(m.fields)-1)...)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	deliverPrediction(t, m, cmd)

	fat, ok := p.last(t).Get("Item_Fat_Content")
	require.True(t, ok)
	assert.Equal(t, model.Label("Regular"), fat)
}

func TestModel_SelectorWrapsLeft(t *testing.T) {
	p := &fakePredictor{value: 1}
	m := newTestModel(p)

	// Outlet_Size defaults to Medium; two steps left wraps to High.
	m, _ = press(t, m, tuitest.Repeat(tea.KeyMsg{Type: tea.KeyDown}, 7)...)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "High", m.fields[7].choice.Selected())
}

func TestModel_EditNumberField(t *testing.T) {
	p := &fakePredictor{value: 1}
	m := newTestModel(p)

	m, _ = press(t, m, tuitest.Repeat(tea.KeyMsg{Type: tea.KeyBackspace}, 2)...)
	// The rejected "x" never reaches the input.
	m, _ = press(t, m, tuitest.Type("12x.5")...)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, m.focus, "enter on a field moves to the next one")

	m, _ = press(t, m, toTrigger(m)...)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	deliverPrediction(t, m, cmd)

	weight, _ := p.last(t).Get("Item_Weight")
	assert.Equal(t, model.Number(12.5), weight)
}

func TestModel_InvalidNumberBlocksPrediction(t *testing.T) {
	p := &fakePredictor{value: 1}
	m := newTestModel(p)

	m, _ = press(t, m, tuitest.Repeat(tea.KeyMsg{Type: tea.KeyBackspace}, 2)...)
	m, _ = press(t, m, tuitest.KeyPress("1.2.3"))
	m, _ = press(t, m, toTrigger(m)...)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, StateEditing, m.State())
	assert.ErrorIs(t, m.LastError(), errInvalidFields)
	assert.Contains(t, m.View(), "Item_Weight must be a number")
	assert.Empty(t, p.inputs)
}

func TestModel_PredictorError(t *testing.T) {
	p := &fakePredictor{err: errors.New("model exploded")}
	m := newTestModel(p)

	m, _ = press(t, m, toTrigger(m)...)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = deliverPrediction(t, m, cmd)

	assert.Equal(t, StateEditing, m.State())
	assert.Nil(t, m.Prediction())
	assert.Contains(t, m.View(), "model exploded")
}

func TestModel_ResetDiscardsInFlightResult(t *testing.T) {
	p := &fakePredictor{value: 99}
	m := newTestModel(p)

	m, _ = press(t, m, toTrigger(m)...)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

	m = deliverPrediction(t, m, cmd)
	assert.Equal(t, StateEditing, m.State())
	assert.Nil(t, m.Prediction())
	assert.Equal(t, 0, m.focus)
	assert.NotContains(t, m.View(), "Predicted Sales:")
}

func TestModel_ResetRestoresDefaults(t *testing.T) {
	m := newTestModel(&fakePredictor{})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "Regular", m.fields[1].choice.Selected())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, "Low Fat", m.fields[1].choice.Selected())
}

func TestModel_FocusClamps(t *testing.T) {
	m := newTestModel(&fakePredictor{})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.focus)

	m, _ = press(t, m, tuitest.Repeat(tea.KeyMsg{Type: tea.KeyTab}, len(m.fields)+5)...)
	assert.True(t, m.onTrigger())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, len(m.fields)-1, m.focus)
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{name: "q", key: tuitest.KeyPress("q")},
		{name: "esc", key: tea.KeyMsg{Type: tea.KeyEsc}},
		{name: "ctrl+c", key: tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(&fakePredictor{})
			m, cmd := press(t, m, tt.key)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestModel_ViewListsEveryFeature(t *testing.T) {
	m := newTestModel(&fakePredictor{})
	view := m.View()

	assert.Contains(t, view, "Sales Prediction Model")
	assert.Contains(t, view, "trained_sales_model.json")
	assert.Contains(t, view, "Predict Sales")
	assert.True(t, tuitest.ContainsInOrder(view, forecast.DefaultCatalog().Names()...),
		"features render in catalog order")
}

func TestModel_HelpToggle(t *testing.T) {
	m := newTestModel(&fakePredictor{})
	assert.NotContains(t, m.View(), "reset to defaults")

	m, _ = press(t, m, tuitest.KeyPress("?"))
	assert.Contains(t, m.View(), "reset to defaults")
}

func TestRun_RequiresPredictor(t *testing.T) {
	_, err := Run(context.Background())
	assert.Error(t, err)
}
