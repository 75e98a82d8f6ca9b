package tui

import (
	"github.com/Veraticus/storecast/internal/forecast"
	"github.com/Veraticus/storecast/internal/service"
	"github.com/Veraticus/storecast/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Predictor service.Predictor
	ModelPath string
	Catalog   forecast.Catalog
	Width     int
	Height    int
	AltScreen bool
	ShowHelp  bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Catalog:   forecast.DefaultCatalog(),
		Width:     80,
		Height:    24,
		AltScreen: true,
		ShowHelp:  true,
	}
}

// WithPredictor sets the prediction service.
func WithPredictor(p service.Predictor) Option {
	return func(c *Config) {
		c.Predictor = p
	}
}

// WithCatalog sets the features shown on the form.
func WithCatalog(catalog forecast.Catalog) Option {
	return func(c *Config) {
		c.Catalog = catalog
	}
}

// WithModelPath sets the model path shown in the header.
func WithModelPath(path string) Option {
	return func(c *Config) {
		c.ModelPath = path
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen controls whether the form takes over the whole terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
