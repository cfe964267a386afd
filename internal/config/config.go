package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the user editable settings stored in ~/.config/fx/config.toml.
type Config struct {
	// Shell overrides the login shell used to launch workspace commands.
	// It may carry extra words, e.g. "zsh -o pipefail".
	Shell    string `toml:"shell"`
	LogLevel string `toml:"log_level"`
	Color    string `toml:"color"`
}

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	// ErrInvalidLogLevel indicates log_level is not recognized.
	ErrInvalidLogLevel = errors.New("config.log_level must be debug, info, warn, or error")
	// ErrInvalidColor indicates the color mode is not recognized.
	ErrInvalidColor = errors.New("config.color must be auto, always, or never")
)

// Default returns the settings used when no config file exists.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	c.Shell = strings.TrimSpace(c.Shell)
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	} else {
		c.LogLevel = strings.ToLower(c.LogLevel)
	}
	if c.Color == "" {
		c.Color = ColorAuto
	} else {
		c.Color = strings.ToLower(c.Color)
	}
}

// Validate ensures the configuration can guide fx's behavior.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return ErrInvalidColor
	}
	return nil
}

// Path locates the config file: $FX_CONFIG, else
// $XDG_CONFIG_HOME/fx/config.toml, else ~/.config/fx/config.toml.
func Path() (string, error) {
	if p := os.Getenv("FX_CONFIG"); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "fx", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate config: %w", err)
	}
	return filepath.Join(home, ".config", "fx", "config.toml"), nil
}

// Load reads configuration from disk. Missing files return a default config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
