package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/storecast/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// NumberFieldModel is a text input that accepts a decimal number.
type NumberFieldModel struct {
	theme   themes.Theme
	err     error
	label   string
	initial string
	input   textinput.Model
}

// NewNumberFieldModel creates a numeric input prefilled with value.
func NewNumberFieldModel(label string, value float64, theme themes.Theme) NumberFieldModel {
	initial := strconv.FormatFloat(value, 'f', -1, 64)

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 24
	input.Width = 16
	input.SetValue(initial)

	return NumberFieldModel{
		theme:   theme,
		label:   label,
		initial: initial,
		input:   input,
	}
}

// Update handles messages while focused. Only characters that can appear in a number are accepted.
func (m NumberFieldModel) Update(msg tea.Msg) (NumberFieldModel, tea.Cmd) {
	if !m.input.Focused() {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyRunes {
		for _, r := range key.Runes {
			if !strings.ContainsRune("0123456789.-+eE", r) {
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = nil
	return m, cmd
}

// View renders the label, the input and any validation error.
func (m NumberFieldModel) View() string {
	label := m.theme.Normal.Render(padLabel(m.label))

	style := m.theme.Normal
	if m.input.Focused() {
		style = m.theme.Highlighted
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, label, style.Render("  "+m.input.View()))

	if m.err != nil {
		row += "  " + m.theme.StatusError.Render(m.err.Error())
	}
	return row
}

// Value parses the current text.
func (m NumberFieldModel) Value() (float64, error) {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return 0, fmt.Errorf("%s is required", m.label)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", m.label)
	}
	return v, nil
}

// Validate records the parse error, if any, for display.
func (m NumberFieldModel) Validate() NumberFieldModel {
	_, m.err = m.Value()
	return m
}

// Err returns the last validation error.
func (m NumberFieldModel) Err() error {
	return m.err
}

// Label returns the field label.
func (m NumberFieldModel) Label() string {
	return m.label
}

// Focus gives the input keyboard focus.
func (m NumberFieldModel) Focus() (NumberFieldModel, tea.Cmd) {
	cmd := m.input.Focus()
	return m, cmd
}

// Blur removes keyboard focus.
func (m NumberFieldModel) Blur() NumberFieldModel {
	m.input.Blur()
	return m
}

// Focused reports whether the input has focus.
func (m NumberFieldModel) Focused() bool {
	return m.input.Focused()
}

// Reset restores the initial value and clears errors.
func (m NumberFieldModel) Reset() NumberFieldModel {
	m.input.SetValue(m.initial)
	m.err = nil
	return m
}
