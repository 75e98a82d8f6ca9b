package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Result is what the form session ended with.
type Result struct {
	// Summary is the last success message, empty if nothing was predicted.
	Summary string
}

// Run shows the interactive prediction form until the user quits.
func Run(ctx context.Context, opts ...Option) (Result, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Predictor == nil {
		return Result{}, fmt.Errorf("predictor is required")
	}
	if len(cfg.Catalog) == 0 {
		return Result{}, fmt.Errorf("catalog is empty")
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(newModel(ctx, cfg), programOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("TUI error: %w", err)
	}

	if m, ok := final.(Model); ok {
		return Result{Summary: m.statusLine()}, nil
	}
	return Result{}, nil
}
