// Package config handles loading and managing application configuration
// from YAML files and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/openclaw/qrform/qr"
)

// Form limits shown by the UI sliders.
const (
	MinModuleSize = 1
	MaxModuleSize = 20
	MinBorder     = 0
	MaxBorder     = 10
)

// FormDefaults are the values the form starts with.
type FormDefaults struct {
	ModuleSize int    `yaml:"module_size"`
	Border     int    `yaml:"border"`
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
	Format     string `yaml:"format"`
}

// Config holds all application configuration values.
type Config struct {
	Port            int          `yaml:"port"`
	LogLevel        string       `yaml:"log_level"`
	Stylesheet      string       `yaml:"stylesheet"`
	SessionSecret   string       `yaml:"session_secret"`
	SecureCookies   bool         `yaml:"secure_cookies"`
	ReadTimeout     Duration     `yaml:"read_timeout"`
	WriteTimeout    Duration     `yaml:"write_timeout"`
	ShutdownTimeout Duration     `yaml:"shutdown_timeout"`
	Defaults        FormDefaults `yaml:"defaults"`
}

// Duration is a wrapper around time.Duration that supports YAML unmarshalling
// from human-readable strings like "30s", "5m", "1h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns a Config populated with the values used when no file is present.
func Default() *Config {
	return &Config{
		Port:            8585,
		LogLevel:        "info",
		Stylesheet:      "style.css",
		ReadTimeout:     Duration{15 * time.Second},
		WriteTimeout:    Duration{30 * time.Second},
		ShutdownTimeout: Duration{10 * time.Second},
		Defaults: FormDefaults{
			ModuleSize: 10,
			Border:     4,
			Foreground: "#000000",
			Background: "#FFFFFF",
			Format:     string(qr.FormatPNG),
		},
	}
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none
// are named) into the process environment. Missing files are ignored and
// variables already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. Environment variables with the
// QRFORM_ prefix override any file or default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies QRFORM_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("QRFORM_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("QRFORM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("QRFORM_STYLESHEET"); ok {
		cfg.Stylesheet = v
	}
	if v := os.Getenv("QRFORM_SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("QRFORM_SECURE_COOKIES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SecureCookies = b
		}
	}
	if v := os.Getenv("QRFORM_MODULE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Defaults.ModuleSize = n
		}
	}
	if v := os.Getenv("QRFORM_BORDER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Defaults.Border = n
		}
	}
	if v := os.Getenv("QRFORM_FOREGROUND"); v != "" {
		cfg.Defaults.Foreground = v
	}
	if v := os.Getenv("QRFORM_BACKGROUND"); v != "" {
		cfg.Defaults.Background = v
	}
	if v := os.Getenv("QRFORM_FORMAT"); v != "" {
		cfg.Defaults.Format = v
	}
}

// Validate checks that the form defaults are inside the UI limits and parse.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	d := c.Defaults
	if d.ModuleSize < MinModuleSize || d.ModuleSize > MaxModuleSize {
		return fmt.Errorf("defaults.module_size must be between %d and %d, got %d", MinModuleSize, MaxModuleSize, d.ModuleSize)
	}
	if d.Border < MinBorder || d.Border > MaxBorder {
		return fmt.Errorf("defaults.border must be between %d and %d, got %d", MinBorder, MaxBorder, d.Border)
	}
	if _, err := qr.ParseColor(d.Foreground); err != nil {
		return fmt.Errorf("defaults.foreground: %w", err)
	}
	if _, err := qr.ParseColor(d.Background); err != nil {
		return fmt.Errorf("defaults.background: %w", err)
	}
	if _, err := qr.ParseFormat(d.Format); err != nil {
		return fmt.Errorf("defaults.format: %w", err)
	}
	return nil
}

// ReadStylesheet returns the configured stylesheet contents. An unset path or
// a missing file yields an empty string and no error.
func (c *Config) ReadStylesheet() (string, error) {
	if c.Stylesheet == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Stylesheet)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading stylesheet: %w", err)
	}
	return string(data), nil
}
