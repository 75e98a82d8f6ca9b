package tui

import (
	"strings"

	"github.com/Veraticus/storecast/internal/forecast"
	"github.com/charmbracelet/lipgloss"
)

const triggerLabel = "Predict Sales"

// renderForm renders the inputs, the trigger, the result and the help line.
func (m Model) renderForm() string {
	sections := []string{
		m.theme.Title.Render("Sales Prediction Model"),
	}
	if m.config.ModelPath != "" {
		sections = append(sections, m.theme.Subtitle.Render("Model: "+m.config.ModelPath))
	}
	sections = append(sections, m.theme.Bold.Render("Input Features for Prediction"))

	for i, f := range m.fields {
		cursor := "  "
		if i == m.focus {
			cursor = lipgloss.NewStyle().Foreground(m.theme.Primary).Render("▸ ")
		}
		var row string
		if f.categorical() {
			row = f.choice.View()
		} else {
			row = f.number.View()
		}
		sections = append(sections, cursor+row)
	}

	sections = append(sections, "", m.renderTrigger(), "")

	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	if m.state == StateResult && m.chart.HasData() {
		sections = append(sections, "", m.theme.Bold.Render("Prediction Visualization"), m.chart.View())
	}

	if m.config.ShowHelp {
		sections = append(sections, "", m.help.View(m.keymap))
	}

	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderTrigger renders the Predict button.
func (m Model) renderTrigger() string {
	label := "[ " + triggerLabel + " ]"
	if m.onTrigger() {
		return "▸ " + m.theme.Selected.Render(label)
	}
	return "  " + m.theme.Normal.Render(label)
}

// renderStatus renders progress, errors or the success message.
func (m Model) renderStatus() string {
	switch {
	case m.state == StatePredicting:
		return m.spinner.View() + " " + m.theme.StatusPending.Render("Predicting...")
	case m.lastError != nil:
		return m.theme.StatusError.Render("✗ " + m.lastError.Error())
	case m.state == StateResult && m.prediction != nil:
		msg := m.theme.StatusSuccess.Render(forecast.SuccessMessage(m.prediction.Value))
		if m.prediction.Cached {
			msg += " " + lipgloss.NewStyle().Foreground(m.theme.Muted).Render("(cached)")
		}
		return msg
	}
	return ""
}

// statusLine is the plain-text status, used when the program exits.
func (m Model) statusLine() string {
	if m.prediction == nil {
		return ""
	}
	return strings.TrimSpace(forecast.SuccessMessage(m.prediction.Value))
}
