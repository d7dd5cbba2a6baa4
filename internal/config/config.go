// Package config loads editor settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keys names the bindings for session commands, e.g. "Ctrl+S".
type Keys struct {
	Save string `yaml:"save"`
	Quit string `yaml:"quit"`
}

// Log controls the event log.
type Log struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
}

// Config holds user configuration values.
type Config struct {
	Keys Keys `yaml:"keys"`
	Log  Log  `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{Keys: Keys{Save: "Ctrl+S", Quit: "Ctrl+Q"}}
}

// Path returns $LINEA_CONFIG, or config.yaml under the user config dir.
func Path() string {
	if p := os.Getenv("LINEA_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "linea", "config.yaml")
}

// Load reads the file at path over the defaults, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets LINEA_LOG and LINEA_LOG_FILE switch the event log on.
func (c *Config) applyEnv() {
	if v := os.Getenv("LINEA_LOG"); v != "" {
		c.Log.Enabled = v != "0" && !strings.EqualFold(v, "false")
	}
	if f := os.Getenv("LINEA_LOG_FILE"); f != "" {
		c.Log.File = f
		c.Log.Enabled = true
	}
}

// Validate checks that both bindings parse and differ.
func (c *Config) Validate() error {
	save, err := ParseBinding(c.Keys.Save)
	if err != nil {
		return fmt.Errorf("keys.save: %w", err)
	}
	quit, err := ParseBinding(c.Keys.Quit)
	if err != nil {
		return fmt.Errorf("keys.quit: %w", err)
	}
	if save == quit {
		return fmt.Errorf("keys.save and keys.quit are both %q", c.Keys.Save)
	}
	return nil
}

// ParseBinding converts "Ctrl+S" (also "ctrl-s", "C-s") into the control
// byte the terminal sends for it. Letters that collide with Tab, Enter or
// Backspace are rejected.
func ParseBinding(s string) (byte, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	var letter string
	for _, prefix := range []string{"ctrl+", "ctrl-", "c-", "^"} {
		if rest, ok := strings.CutPrefix(lower, prefix); ok {
			letter = rest
			break
		}
	}
	if len(letter) != 1 || letter[0] < 'a' || letter[0] > 'z' {
		return 0, fmt.Errorf("unsupported binding %q", s)
	}
	switch letter[0] {
	case 'h', 'i', 'j', 'm':
		return 0, fmt.Errorf("binding %q is indistinguishable from an editing key", s)
	}
	return letter[0] & 0x1f, nil
}
