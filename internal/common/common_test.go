package common

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError(t *testing.T) {
	err := NewUserError("Model file not found. Please check the file path.", ErrModelNotFound)
	wrapped := fmt.Errorf("startup: %w", err)

	assert.ErrorIs(t, wrapped, ErrModelNotFound)
	assert.Equal(t, "Model file not found. Please check the file path.", UserMessage(wrapped))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)
	logger.Info("predicted", "value", 1.5)
	assert.Contains(t, buf.String(), `"msg":"predicted"`)

	_, err = NewLogger(&buf, slog.LevelInfo, "xml")
	assert.Error(t, err)
}

func TestSetupLogger_File(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "storecast.log")
	closer, err := SetupLogger(LogOptions{Level: "debug", Format: "console", File: path})
	require.NoError(t, err)

	slog.Info("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
