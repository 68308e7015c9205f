package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Cleanup(func() { Level.Set(slog.LevelInfo) })
	var buf bytes.Buffer
	log := New(Options{Out: &buf, NoTime: true})

	Level.Set(slog.LevelInfo)
	log.Debug("hidden")
	log.Info("appended", "path", "a.csv", "lines", 3, "note", "", "resumed", false)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "appended")
	assert.Contains(t, out, "path=a.csv")
	assert.Contains(t, out, "lines=3")
	assert.NotContains(t, out, "note=", "empty strings are dropped")
	assert.NotContains(t, out, "resumed=", "false is dropped")
	assert.NotContains(t, out, "\x1b[", "no color when not writing to a terminal")

	buf.Reset()
	Level.Set(slog.LevelDebug)
	log.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("verbose")
	assert.ErrorContains(t, err, `invalid log level "verbose"`)
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { Level.Set(slog.LevelInfo) })

	require.NoError(t, SetLevel("error"))
	assert.Equal(t, slog.LevelError, Level.Level())

	require.Error(t, SetLevel("loud"))
	assert.Equal(t, slog.LevelError, Level.Level(), "an invalid level leaves the current one")
}
