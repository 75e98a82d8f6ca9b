// Package tuitest builds synthetic key input and inspects rendered views in tests.
package tuitest

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Key creates a key message of the given type.
func Key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// KeyPress creates a single rune key press. Multi-rune strings arrive as one
// message, the way a paste does.
func KeyPress(key string) tea.KeyMsg {
	return tea.KeyMsg{
		Type:  tea.KeyRunes,
		Runes: []rune(key),
	}
}

// Type returns one key press per rune of text.
func Type(text string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(text))
	for _, r := range text {
		keys = append(keys, tea.KeyMsg{
			Type:  tea.KeyRunes,
			Runes: []rune{r},
		})
	}
	return keys
}

// Repeat returns k n times.
func Repeat(k tea.KeyMsg, n int) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, n)
	for i := range keys {
		keys[i] = k
	}
	return keys
}

// WindowSize creates a window size message for testing responsive layouts.
func WindowSize(width, height int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{
		Width:  width,
		Height: height,
	}
}

// Collect runs cmd and returns the messages it produces, flattening batches.
func Collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}
