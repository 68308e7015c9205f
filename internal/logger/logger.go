// Package logger sets up the process-wide slog logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level is shared by every handler created by New so the level can be
// changed after setup, e.g. once the config file has been read.
var Level = new(slog.LevelVar)

// Options controls the handler built by New.
type Options struct {
	// Out defaults to stderr.
	Out io.Writer
	// NoColor forces plain output. Color is also off when Out is not a terminal.
	NoColor bool
	// NoTime drops timestamps. Set automatically under systemd.
	NoTime bool
}

// New returns a tint-backed logger writing to opts.Out.
func New(opts Options) *slog.Logger {
	out := opts.Out
	noColor := opts.NoColor
	if out == nil {
		out = colorable.NewColorable(os.Stderr)
		noColor = noColor || !isatty.IsTerminal(os.Stderr.Fd())
	} else if f, ok := out.(*os.File); ok {
		noColor = noColor || !isatty.IsTerminal(f.Fd())
	} else {
		noColor = true
	}
	// systemd adds its own timestamps.
	noTime := opts.NoTime || os.Getenv("JOURNAL_STREAM") != ""

	return slog.New(tint.NewHandler(out, &tint.Options{
		Level:      Level,
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if noTime && a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			if skipAttr(a.Value) {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Setup installs a default logger at the given level.
func Setup(level string) error {
	if err := SetLevel(level); err != nil {
		return err
	}
	slog.SetDefault(New(Options{}))
	return nil
}

// SetLevel parses level ("debug", "info", "warn", "error") and applies it.
func SetLevel(level string) error {
	l, err := ParseLevel(level)
	if err != nil {
		return err
	}
	Level.Set(l)
	return nil
}

// ParseLevel parses a level name. The empty string means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
}

// skipAttr drops zero values so optional attributes can be passed
// unconditionally.
func skipAttr(v slog.Value) bool {
	switch t := v.Any().(type) {
	case string:
		return t == ""
	case bool:
		return !t
	case int64:
		return t == 0
	case uint64:
		return t == 0
	case float64:
		return t == 0
	case time.Time:
		return t.IsZero()
	case time.Duration:
		return t == 0
	case nil:
		return true
	}
	return false
}
