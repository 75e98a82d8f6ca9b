// Package themes holds the lipgloss styles used by the form.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Selected      lipgloss.Style
	StatusPending lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	RoundedBox    lipgloss.Style
	Highlighted   lipgloss.Style
	Box           lipgloss.Style
	Secondary     lipgloss.Color
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Background    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

// palette is the set of colors a theme is derived from.
type palette struct {
	primary, secondary             lipgloss.Color
	success, warning, danger, info lipgloss.Color
	background, foreground, subtle lipgloss.Color
	border, muted, onPrimary       lipgloss.Color
	highlight                      lipgloss.Color
}

func newTheme(p palette) Theme {
	return Theme{
		Primary:    p.primary,
		Secondary:  p.secondary,
		Success:    p.success,
		Warning:    p.warning,
		Error:      p.danger,
		Info:       p.info,
		Background: p.background,
		Foreground: p.foreground,
		Border:     p.border,
		Muted:      p.muted,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.onPrimary).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(p.highlight).
			Foreground(p.foreground),

		Box: lipgloss.NewStyle().
			Padding(1, 2),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().Foreground(p.success).Bold(true),
		StatusWarning: lipgloss.NewStyle().Foreground(p.warning).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(p.danger).Bold(true),
		StatusInfo:    lipgloss.NewStyle().Foreground(p.info).Bold(true),
		StatusPending: lipgloss.NewStyle().Foreground(p.muted).Italic(true),
	}
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:    "#7c3aed",
	secondary:  "#a78bfa",
	success:    "#10b981",
	warning:    "#f59e0b",
	danger:     "#ef4444",
	info:       "#3b82f6",
	background: "#1a1a1a",
	foreground: "#fafafa",
	subtle:     "#a3a3a3",
	border:     "#404040",
	muted:      "#737373",
	onPrimary:  "#fafafa",
	highlight:  "#404040",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:    "#cba6f7",
	secondary:  "#f5c2e7",
	success:    "#a6e3a1",
	warning:    "#f9e2af",
	danger:     "#f38ba8",
	info:       "#89dceb",
	background: "#1e1e2e",
	foreground: "#cdd6f4",
	subtle:     "#a6adc8",
	border:     "#45475a",
	muted:      "#6c7086",
	onPrimary:  "#1e1e2e",
	highlight:  "#45475a",
})

// Light suits terminals with a light background.
var Light = newTheme(palette{
	primary:    "#6d28d9",
	secondary:  "#8b5cf6",
	success:    "#047857",
	warning:    "#b45309",
	danger:     "#b91c1c",
	info:       "#1d4ed8",
	background: "#ffffff",
	foreground: "#171717",
	subtle:     "#525252",
	border:     "#d4d4d4",
	muted:      "#737373",
	onPrimary:  "#ffffff",
	highlight:  "#e5e5e5",
})

// GetTheme returns a theme by name, falling back to Default.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	case "light":
		return Light
	default:
		return Default
	}
}
