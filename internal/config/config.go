// Package config loads the daemon settings file. Wallpaper assignments
// live in the separate wallpaper store; this file only carries tunables.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds daemon tunables.
type Config struct {
	// TickIntervalMS is the power/occlusion signal tick period in
	// milliseconds. Default 1000.
	TickIntervalMS int `yaml:"tick_interval_ms"`

	// MpvPath is the mpv binary used for video playback. Default "mpv".
	MpvPath string `yaml:"mpv_path"`

	// MpvArgs are extra arguments appended to every mpv invocation.
	MpvArgs []string `yaml:"mpv_args,omitempty"`

	// RecentMax bounds the recently-used wallpaper list. Default 10.
	RecentMax int `yaml:"recent_max"`

	// LogLevel controls daemon logging: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfigPath returns the standard settings file location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "livewalli", "config.yaml"), nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		TickIntervalMS: 1000,
		MpvPath:        "mpv",
		RecentMax:      10,
		LogLevel:       "info",
	}
}

// Load reads the settings from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the settings from path, applying defaults for any
// unset field. A missing file yields the defaults; unknown keys are errors.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	if err := decodeStrictYAML(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.TickIntervalMS <= 0 {
		return fmt.Errorf("tick_interval_ms must be positive, got %d", c.TickIntervalMS)
	}
	if c.MpvPath == "" {
		return fmt.Errorf("mpv_path must not be empty")
	}
	if c.RecentMax <= 0 {
		return fmt.Errorf("recent_max must be positive, got %d", c.RecentMax)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}

// TickInterval returns the signal tick period as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// Save writes the settings to the standard location.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
