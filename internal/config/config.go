// Package config loads linekit settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	AppName               = "linekit"
	DefaultConfigFileName = "config.toml"
	// EnvConfig names the environment variable that overrides the config path.
	EnvConfig = "LINEKIT_CONFIG"
)

// Config holds the combined configuration.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Files  FilesConfig  `toml:"files"`
	View   ViewConfig   `toml:"view"`
	Follow FollowConfig `toml:"follow"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// FilesConfig controls how edited files are written.
type FilesConfig struct {
	Perm        Perm `toml:"perm"`
	MaxLineSize int  `toml:"max_line_size"`
	// Lock takes an advisory lock around every mutating command.
	Lock bool `toml:"lock"`
}

// ViewConfig sizes the table viewer.
type ViewConfig struct {
	Height      int `toml:"height"`
	ColumnWidth int `toml:"column_width"`
}

// FollowConfig controls `linekit follow`.
type FollowConfig struct {
	PollInterval Duration `toml:"poll_interval"`
	// StateFile stores follow checkpoints. Empty means <UserCacheDir>/linekit/follow.json.
	StateFile string `toml:"state_file"`
}

// Perm is a file mode written as an octal string, e.g. "0644".
type Perm fs.FileMode

func (p *Perm) UnmarshalText(text []byte) error {
	v, err := strconv.ParseUint(string(text), 8, 32)
	if err != nil {
		return fmt.Errorf("invalid file mode %q: %w", text, err)
	}
	if v > 0o777 {
		return fmt.Errorf("invalid file mode %q: only permission bits are allowed", text)
	}
	*p = Perm(v)
	return nil
}

func (p Perm) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%04o", uint32(p))), nil
}

// Duration is a time.Duration written as a string, e.g. "2s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// NewDefaultConfig returns the configuration used when no file exists.
func NewDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Files: FilesConfig{
			Perm:        0o644,
			MaxLineSize: 16 << 20,
			Lock:        true,
		},
		View: ViewConfig{
			Height:      20,
			ColumnWidth: 16,
		},
		Follow: FollowConfig{
			PollInterval: Duration(2 * time.Second),
		},
	}
}

// Path returns the config file to load: flagPath if set, else $LINEKIT_CONFIG,
// else <UserConfigDir>/linekit/config.toml. It is empty when none can be
// determined.
func Path(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// Load reads the file at path over the defaults. A missing file yields the
// defaults. Unknown keys are logged and otherwise ignored.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("config file not found", "path", path)
		return NewDefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slog.Warn("unrecognized config keys", "path", path, "keys", keys)
	}
	cfg.validate()
	return cfg, nil
}

// validate resets out-of-range values to their defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Files.Perm == 0 {
		c.Files.Perm = defaults.Files.Perm
	}
	if c.Files.MaxLineSize <= 0 {
		c.Files.MaxLineSize = defaults.Files.MaxLineSize
	}
	if c.View.Height <= 0 {
		c.View.Height = defaults.View.Height
	}
	if c.View.ColumnWidth <= 0 {
		c.View.ColumnWidth = defaults.View.ColumnWidth
	}
	if c.Follow.PollInterval <= 0 {
		c.Follow.PollInterval = defaults.Follow.PollInterval
	}
}

// StateFile returns the follow checkpoint file, resolving the default location.
func (c *Config) StateFile() (string, error) {
	if c.Follow.StateFile != "" {
		return c.Follow.StateFile, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate cache directory: %w", err)
	}
	return filepath.Join(dir, AppName, "follow.json"), nil
}
