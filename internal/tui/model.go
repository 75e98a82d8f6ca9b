package tui

import (
	"context"
	"errors"

	"github.com/Veraticus/storecast/internal/forecast"
	"github.com/Veraticus/storecast/internal/model"
	"github.com/Veraticus/storecast/internal/tui/components"
	"github.com/Veraticus/storecast/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var errInvalidFields = errors.New("fix the highlighted fields before predicting")

// formField is one row of the form: a numeric input or a selector.
type formField struct {
	spec   model.FeatureSpec
	number components.NumberFieldModel
	choice components.SelectFieldModel
}

func (f formField) categorical() bool {
	return f.spec.Kind == model.FeatureCategorical
}

// Model holds the main TUI state.
type Model struct {
	ctx          context.Context
	theme        themes.Theme
	lastError    error
	prediction   *model.Prediction
	config       Config
	keymap       KeyMap
	help         help.Model
	spinner      spinner.Model
	chart        components.BarChartModel
	fields       []formField
	focus        int
	seq          int
	width        int
	height       int
	state        State
	quitting     bool
	showFullHelp bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		state:   StateEditing,
		config:  cfg,
		keymap:  DefaultKeyMap(),
		theme:   cfg.Theme,
		help:    help.New(),
		spinner: s,
		chart:   components.NewBarChartModel(forecast.ChartTitle, forecast.ChartYLabel, forecast.FormatCurrency, cfg.Theme),
		width:   cfg.Width,
		height:  cfg.Height,
	}
	for _, spec := range cfg.Catalog {
		f := formField{spec: spec}
		if f.categorical() {
			f.choice = components.NewSelectFieldModel(spec.Name, spec.Options, spec.Default.Label, cfg.Theme)
		} else {
			f.number = components.NewNumberFieldModel(spec.Name, spec.Default.Number, cfg.Theme)
		}
		m.fields = append(m.fields, f)
	}
	m, _ = m.setFocus(0)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.chart = m.chart.Resize(msg.Width, msg.Height/3)
		return m, nil

	case predictionMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.lastError = msg.err
			m.state = StateEditing
			return m, nil
		}
		m.lastError = nil
		m.prediction = msg.prediction
		m.chart = m.chart.SetValue(msg.prediction.Value)
		m.state = StateResult
		return m, nil

	case spinner.TickMsg:
		if m.state != StatePredicting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderForm()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.showFullHelp = !m.showFullHelp
		m.help.ShowAll = m.showFullHelp
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		return m.reset()

	case key.Matches(msg, m.keymap.Up):
		return m.setFocus(m.focus - 1)

	case key.Matches(msg, m.keymap.Down):
		return m.setFocus(m.focus + 1)

	case key.Matches(msg, m.keymap.Select):
		if m.onTrigger() {
			return m.submit()
		}
		return m.setFocus(m.focus + 1)
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused field.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.onTrigger() {
		return m, nil
	}
	var cmd tea.Cmd
	f := m.fields[m.focus]
	if f.categorical() {
		f.choice, cmd = f.choice.Update(msg)
	} else {
		f.number, cmd = f.number.Update(msg)
	}
	m.fields[m.focus] = f
	return m, cmd
}

// onTrigger reports whether the Predict button has focus.
func (m Model) onTrigger() bool {
	return m.focus == len(m.fields)
}

// setFocus moves focus to i, clamped to the fields plus the trigger.
func (m Model) setFocus(i int) (Model, tea.Cmd) {
	m.focus = max(0, min(len(m.fields), i))
	m.fields = append([]formField(nil), m.fields...)

	var cmd tea.Cmd
	for idx := range m.fields {
		f := m.fields[idx]
		if f.categorical() {
			if idx == m.focus {
				f.choice = f.choice.Focus()
			} else {
				f.choice = f.choice.Blur()
			}
		} else {
			if idx == m.focus {
				f.number, cmd = f.number.Focus()
			} else {
				f.number = f.number.Blur()
			}
		}
		m.fields[idx] = f
	}
	return m, cmd
}

// submit validates the form and starts a prediction.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state == StatePredicting {
		return m, nil
	}

	input, ok := m.collect()
	if !ok {
		m.lastError = errInvalidFields
		return m, nil
	}

	m.seq++
	m.lastError = nil
	m.state = StatePredicting
	return m, tea.Batch(m.predict(input), m.spinner.Tick)
}

// collect validates every numeric field and builds the submission in catalog order.
func (m *Model) collect() (model.RawInput, bool) {
	m.fields = append([]formField(nil), m.fields...)

	ok := true
	fields := make([]model.Field, 0, len(m.fields))
	for i, f := range m.fields {
		if f.categorical() {
			fields = append(fields, model.Field{Name: f.spec.Name, Value: model.Label(f.choice.Selected())})
			continue
		}
		f.number = f.number.Validate()
		m.fields[i] = f
		v, err := f.number.Value()
		if err != nil {
			ok = false
			continue
		}
		fields = append(fields, model.Field{Name: f.spec.Name, Value: model.Number(v)})
	}
	return model.NewRecord(fields...), ok
}

// reset restores defaults and discards any result, including one still in flight.
func (m Model) reset() (tea.Model, tea.Cmd) {
	m.fields = append([]formField(nil), m.fields...)
	for i, f := range m.fields {
		if f.categorical() {
			f.choice = f.choice.Reset()
		} else {
			f.number = f.number.Reset()
		}
		m.fields[i] = f
	}
	m.seq++
	m.state = StateEditing
	m.prediction = nil
	m.lastError = nil
	m.chart = m.chart.Clear()
	return m.setFocus(0)
}

// State returns the current form state.
func (m Model) State() State {
	return m.state
}

// Prediction returns the last successful prediction, if any.
func (m Model) Prediction() *model.Prediction {
	return m.prediction
}

// LastError returns the error shown under the form, if any.
func (m Model) LastError() error {
	return m.lastError
}
