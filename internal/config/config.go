// Package config loads diari settings from TOML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/faizmokh/diari/internal/files"
	"github.com/faizmokh/diari/internal/logger"
)

// FileName is the config file looked up in the diari home or user config directory.
const FileName = "config.toml"

// Config holds the application's combined configuration.
type Config struct {
	DataDir string       `toml:"data_dir"`
	Logger  LoggerConfig `toml:"logger"`
	Theme   ThemeConfig  `toml:"theme"`
}

// LoggerConfig controls the slog output.
type LoggerConfig struct {
	Level string `toml:"level"`
	// File is where logs go. Empty disables logging, "-" means stderr.
	File string `toml:"file"`
}

// ThemeConfig holds the colours used to paint rendered entries.
type ThemeConfig struct {
	Text    string `toml:"text"`
	Accent  string `toml:"accent"`
	Primary string `toml:"primary"`
	Muted   string `toml:"muted"`
	Header  string `toml:"header"`
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level: "info",
		},
		Theme: ThemeConfig{
			Text:    "#CDD6F4",
			Accent:  "#F9A03F",
			Primary: "#4A90D9",
			Muted:   "#6C7086",
			Header:  "#FFFFFF",
		},
	}
}

// DefaultPath resolves $DIARI_HOME/config.toml, falling back to the user
// config directory.
func DefaultPath() (string, error) {
	if override := strings.TrimSpace(os.Getenv(files.HomeEnv)); override != "" {
		base, err := files.ResolveBasePath()
		if err != nil {
			return "", err
		}
		return filepath.Join(base, FileName), nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "diari", FileName), nil
}

// Load reads path (or DefaultPath when empty) over the defaults. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, nil
		}
	}

	metadata, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debugf("config file not found: %s", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("config %s: unrecognized keys: %v", path, undecoded)
	}

	cfg.validate()
	return cfg, nil
}

// validate resets invalid values to their defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if strings.TrimSpace(c.Logger.Level) == "" {
		c.Logger.Level = defaults.Logger.Level
	}

	colors := []struct {
		value    *string
		fallback string
	}{
		{&c.Theme.Text, defaults.Theme.Text},
		{&c.Theme.Accent, defaults.Theme.Accent},
		{&c.Theme.Primary, defaults.Theme.Primary},
		{&c.Theme.Muted, defaults.Theme.Muted},
		{&c.Theme.Header, defaults.Theme.Header},
	}
	for _, color := range colors {
		if !validColor(*color.value) {
			*color.value = color.fallback
		}
	}
}

// validColor accepts #RGB / #RRGGBB hex or an ANSI palette number.
func validColor(value string) bool {
	if value == "" {
		return false
	}
	if strings.HasPrefix(value, "#") {
		hex := value[1:]
		if len(hex) != 3 && len(hex) != 6 {
			return false
		}
		for _, r := range hex {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return false
			}
		}
		return true
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(value) <= 3
}
