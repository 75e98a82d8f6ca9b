package components

import (
	"strings"

	"github.com/Veraticus/storecast/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SelectFieldModel is a single-choice selector cycled with ←/→.
type SelectFieldModel struct {
	theme   themes.Theme
	label   string
	options []string
	cursor  int
	initial int
	focused bool
}

// NewSelectFieldModel creates a selector starting on selected, or the first option.
func NewSelectFieldModel(label string, options []string, selected string, theme themes.Theme) SelectFieldModel {
	m := SelectFieldModel{
		label:   label,
		options: options,
		theme:   theme,
	}
	for i, opt := range options {
		if opt == selected {
			m.cursor = i
			break
		}
	}
	m.initial = m.cursor
	return m
}

// Update handles messages while focused.
func (m SelectFieldModel) Update(msg tea.Msg) (SelectFieldModel, tea.Cmd) {
	if !m.focused || len(m.options) == 0 {
		return m, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "right", "l", " ":
			m.cursor = (m.cursor + 1) % len(m.options)
		case "left", "h":
			m.cursor = (m.cursor + len(m.options) - 1) % len(m.options)
		}
	}
	return m, nil
}

// View renders the label and the current choice.
func (m SelectFieldModel) View() string {
	label := m.theme.Normal.Render(padLabel(m.label))
	value := m.Selected()

	var choice string
	if m.focused {
		choice = m.theme.Selected.Render("‹ " + value + " ›")
	} else {
		choice = m.theme.Normal.Render("  " + value)
	}

	position := lipgloss.NewStyle().Foreground(m.theme.Muted).
		Render(strings.Repeat("·", m.cursor) + "•" + strings.Repeat("·", len(m.options)-m.cursor-1))

	return lipgloss.JoinHorizontal(lipgloss.Top, label, choice, "  ", position)
}

// Selected returns the current option.
func (m SelectFieldModel) Selected() string {
	if len(m.options) == 0 {
		return ""
	}
	return m.options[m.cursor]
}

// Label returns the field label.
func (m SelectFieldModel) Label() string {
	return m.label
}

// Focus gives the selector keyboard focus.
func (m SelectFieldModel) Focus() SelectFieldModel {
	m.focused = true
	return m
}

// Blur removes keyboard focus.
func (m SelectFieldModel) Blur() SelectFieldModel {
	m.focused = false
	return m
}

// Focused reports whether the selector has focus.
func (m SelectFieldModel) Focused() bool {
	return m.focused
}

// Reset restores the initial selection.
func (m SelectFieldModel) Reset() SelectFieldModel {
	m.cursor = m.initial
	return m
}

const labelWidth = 28

func padLabel(label string) string {
	if len(label) >= labelWidth {
		return label + " "
	}
	return label + strings.Repeat(" ", labelWidth-len(label))
}
