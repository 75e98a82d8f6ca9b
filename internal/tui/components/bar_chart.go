package components

import (
	"math"
	"strings"

	"github.com/Veraticus/storecast/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BarChartModel renders one labeled vertical bar against a y axis.
type BarChartModel struct {
	theme   themes.Theme
	format  func(float64) string
	title   string
	yLabel  string
	value   float64
	height  int
	barWide int
	hasData bool
}

// NewBarChartModel creates an empty chart. format renders axis and bar values.
func NewBarChartModel(title, yLabel string, format func(float64) string, theme themes.Theme) BarChartModel {
	return BarChartModel{
		theme:   theme,
		format:  format,
		title:   title,
		yLabel:  yLabel,
		height:  8,
		barWide: 11,
	}
}

// SetValue sets the bar's value.
func (m BarChartModel) SetValue(v float64) BarChartModel {
	m.value = v
	m.hasData = true
	return m
}

// Clear removes the bar.
func (m BarChartModel) Clear() BarChartModel {
	m.value = 0
	m.hasData = false
	return m
}

// HasData reports whether a value is set.
func (m BarChartModel) HasData() bool {
	return m.hasData
}

// Resize adjusts the plot height to fit the available rows.
func (m BarChartModel) Resize(_, height int) BarChartModel {
	m.height = max(3, min(12, height-6))
	return m
}

// Update handles messages.
func (m BarChartModel) Update(msg tea.Msg) (BarChartModel, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m = m.Resize(msg.Width, msg.Height/3)
	}
	return m, nil
}

// View renders the chart, or nothing when no value is set.
func (m BarChartModel) View() string {
	if !m.hasData {
		return ""
	}

	top := AxisMax(m.value)
	filled := BarRows(m.value, top, m.height)

	topLabel := m.format(top)
	zeroLabel := m.format(0)
	axisWidth := max(len(topLabel), len(zeroLabel))

	barStyle := lipgloss.NewStyle().Foreground(m.theme.Primary)
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	rows := make([]string, 0, m.height+3)
	for i := 0; i < m.height; i++ {
		label := ""
		switch i {
		case 0:
			label = topLabel
		case m.height - 1:
			label = zeroLabel
		}
		axis := muted.Render(leftPad(label, axisWidth) + " │")

		cell := strings.Repeat(" ", m.barWide)
		if m.height-i <= filled {
			cell = barStyle.Render(strings.Repeat("█", m.barWide))
		}
		rows = append(rows, axis+" "+cell)
	}
	rows = append(rows,
		muted.Render(strings.Repeat(" ", axisWidth)+" └"+strings.Repeat("─", m.barWide+2)),
		strings.Repeat(" ", axisWidth+3)+m.theme.Bold.Render(m.title),
	)

	plot := strings.Join(rows, "\n")
	yLabel := muted.Render(m.yLabel)
	return lipgloss.JoinVertical(lipgloss.Left, yLabel, plot)
}

// AxisMax returns the smallest 1, 2 or 5 × 10^k that is at least v.
func AxisMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, step := range []float64{1, 2, 5, 10} {
		if step*exp >= v {
			return step * exp
		}
	}
	return 10 * exp
}

// BarRows returns how many of height rows a bar of value v fills on a 0..top axis.
// Any positive value fills at least one row.
func BarRows(v, top float64, height int) int {
	if v <= 0 || top <= 0 || height <= 0 {
		return 0
	}
	rows := int(math.Round(v / top * float64(height)))
	return max(1, min(height, rows))
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
