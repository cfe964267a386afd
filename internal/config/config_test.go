package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load = %#v, want %#v", cfg, Default())
	}
	if cfg.LogLevel != "warn" || cfg.Color != ColorAuto || cfg.Shell != "" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "shell = \"  zsh -o pipefail \"\nlog_level = \"DEBUG\"\ncolor = \"Never\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Config{Shell: "zsh -o pipefail", LogLevel: "debug", Color: ColorNever}
	if cfg != want {
		t.Fatalf("Load = %#v, want %#v", cfg, want)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := []struct {
		name string
		data string
		want error
	}{
		{"logLevel", "log_level = \"loud\"\n", ErrInvalidLogLevel},
		{"color", "color = \"sometimes\"\n", ErrInvalidColor},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.data), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := Load(path); !errors.Is(err, tc.want) {
				t.Fatalf("Load error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("shell = \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("FX_CONFIG", "/custom/fx.toml")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got, err := Path(); err != nil || got != "/custom/fx.toml" {
		t.Fatalf("Path = %q, %v", got, err)
	}

	t.Setenv("FX_CONFIG", "")
	if got, err := Path(); err != nil || got != filepath.Join("/xdg", "fx", "config.toml") {
		t.Fatalf("Path = %q, %v", got, err)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/someone")
	if got, err := Path(); err != nil || got != filepath.Join("/home/someone", ".config", "fx", "config.toml") {
		t.Fatalf("Path = %q, %v", got, err)
	}
}
