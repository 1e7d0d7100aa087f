// Package config loads the app-control settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"appcontrol/internal/appcontrol"
	"appcontrol/internal/platform"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "APPCONTROL"

// Error formats for the command surface
const (
	ErrorFormatMessage = "message"
	ErrorFormatCode    = "code"
)

// Config holds all app-control configuration options
type Config struct {
	Window WindowConfig `json:"window" yaml:"window"`
	Errors ErrorsConfig `json:"errors" yaml:"errors"`
	Log    LogConfig    `json:"log" yaml:"log"`
	Plugin PluginConfig `json:"plugin" yaml:"plugin"`
}

// WindowConfig selects how desktop windows are found and which of them are targeted
type WindowConfig struct {
	Backend platform.Backend       `json:"backend" yaml:"backend"` // auto, host or native
	Scope   appcontrol.WindowScope `json:"scope" yaml:"scope"`     // all or main

	// PollInterval is how often the foreground state is sampled for
	// app-resumed events. Zero disables polling.
	PollInterval time.Duration `json:"pollInterval" yaml:"pollInterval"`
}

// ErrorsConfig controls how failures reach the frontend
type ErrorsConfig struct {
	Format string `json:"format" yaml:"format"` // message or code
}

type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

type PluginConfig struct {
	Identifier string `json:"identifier" yaml:"identifier"` // native plugin registration name
}

// env mirrors the overridable settings. Pointers stay nil when the variable is unset.
type env struct {
	WindowBackend    *string        `envconfig:"WINDOW_BACKEND"`
	WindowScope      *string        `envconfig:"WINDOW_SCOPE"`
	PollInterval     *time.Duration `envconfig:"WINDOW_POLL_INTERVAL"`
	ErrorFormat      *string        `envconfig:"ERROR_FORMAT"`
	LogLevel         *string        `envconfig:"LOG_LEVEL"`
	LogDev           *bool          `envconfig:"LOG_DEV"`
	PluginIdentifier *string        `envconfig:"PLUGIN_IDENTIFIER"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Backend:      platform.BackendAuto,
			Scope:        appcontrol.ScopeAll,
			PollInterval: time.Second,
		},
		Errors: ErrorsConfig{Format: ErrorFormatMessage},
		Log:    LogConfig{Level: "info"},
		Plugin: PluginConfig{Identifier: appcontrol.DefaultPluginIdentifier},
	}
}

// DevelopmentConfig returns a configuration for local development
func DevelopmentConfig() *Config {
	c := DefaultConfig()
	c.Log.Level = "debug"
	c.Log.Development = true
	return c
}

// DefaultPath returns ~/.config/appcontrol/config.yaml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "appcontrol", "config.yaml"), nil
}

// Load reads the default config file, applies environment overrides and validates
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads path, applies environment overrides and validates. A missing
// file is not an error; defaults are used instead.
func LoadFrom(path string) (*Config, error) {
	c := DefaultConfig()

	if path != "" {
		if err := c.LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := c.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// LoadFromFile merges the YAML document at path over c
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LoadFromEnvironment applies APPCONTROL_* variables over c
func (c *Config) LoadFromEnvironment() error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if e.WindowBackend != nil {
		c.Window.Backend = platform.Backend(strings.ToLower(*e.WindowBackend))
	}
	if e.WindowScope != nil {
		c.Window.Scope = appcontrol.WindowScope(strings.ToLower(*e.WindowScope))
	}
	if e.PollInterval != nil {
		c.Window.PollInterval = *e.PollInterval
	}
	if e.ErrorFormat != nil {
		c.Errors.Format = strings.ToLower(*e.ErrorFormat)
	}
	if e.LogLevel != nil {
		c.Log.Level = *e.LogLevel
	}
	if e.LogDev != nil {
		c.Log.Development = *e.LogDev
	}
	if e.PluginIdentifier != nil {
		c.Plugin.Identifier = *e.PluginIdentifier
	}
	return nil
}

// Validate checks that every setting holds a known value
func (c *Config) Validate() error {
	if !c.Window.Backend.Valid() {
		return fmt.Errorf("window.backend must be one of auto, host, native, got %q", c.Window.Backend)
	}

	if !c.Window.Scope.Valid() {
		return fmt.Errorf("window.scope must be one of all, main, got %q", c.Window.Scope)
	}

	if c.Window.PollInterval < 0 {
		return fmt.Errorf("window.pollInterval cannot be negative, got %v", c.Window.PollInterval)
	}

	switch c.Errors.Format {
	case ErrorFormatMessage, ErrorFormatCode:
	default:
		return fmt.Errorf("errors.format must be message or code, got %q", c.Errors.Format)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}

	if strings.TrimSpace(c.Plugin.Identifier) == "" {
		return fmt.Errorf("plugin.identifier cannot be empty")
	}
	return nil
}
