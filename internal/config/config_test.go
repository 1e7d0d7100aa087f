package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appcontrol/internal/appcontrol"
	"appcontrol/internal/platform"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, platform.BackendAuto, c.Window.Backend)
	assert.Equal(t, appcontrol.ScopeAll, c.Window.Scope)
	assert.Equal(t, time.Second, c.Window.PollInterval)
	assert.Equal(t, ErrorFormatMessage, c.Errors.Format)
	assert.Equal(t, "info", c.Log.Level)
	assert.False(t, c.Log.Development)
	assert.Equal(t, appcontrol.DefaultPluginIdentifier, c.Plugin.Identifier)
	assert.NoError(t, c.Validate())
}

func TestDevelopmentConfig(t *testing.T) {
	c := DevelopmentConfig()

	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Log.Development)
	assert.NoError(t, c.Validate())
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	c, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadFrom_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  backend: host
  scope: main
  pollInterval: 250ms
errors:
  format: code
log:
  level: debug
`)

	c, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, platform.BackendHost, c.Window.Backend)
	assert.Equal(t, appcontrol.ScopeMain, c.Window.Scope)
	assert.Equal(t, 250*time.Millisecond, c.Window.PollInterval)
	assert.Equal(t, ErrorFormatCode, c.Errors.Format)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, appcontrol.DefaultPluginIdentifier, c.Plugin.Identifier, "unset keys keep their defaults")
}

func TestLoadFrom_EnvironmentOverridesYAML(t *testing.T) {
	path := writeConfig(t, "window:\n  backend: host\n")
	t.Setenv("APPCONTROL_WINDOW_BACKEND", "NATIVE")
	t.Setenv("APPCONTROL_ERROR_FORMAT", "code")
	t.Setenv("APPCONTROL_LOG_DEV", "true")
	t.Setenv("APPCONTROL_WINDOW_POLL_INTERVAL", "0s")
	t.Setenv("APPCONTROL_PLUGIN_IDENTIFIER", "com.example.control")

	c, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, platform.BackendNative, c.Window.Backend)
	assert.Equal(t, ErrorFormatCode, c.Errors.Format)
	assert.True(t, c.Log.Development)
	assert.Zero(t, c.Window.PollInterval)
	assert.Equal(t, "com.example.control", c.Plugin.Identifier)
	assert.Equal(t, appcontrol.ScopeAll, c.Window.Scope)
}

func TestLoadFrom_InvalidEnvironmentValue(t *testing.T) {
	t.Setenv("APPCONTROL_LOG_DEV", "sometimes")

	_, err := LoadFrom("")
	assert.Error(t, err)
}

func TestLoadFrom_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "window: [unterminated")

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown backend", func(c *Config) { c.Window.Backend = "wayland" }},
		{"unknown scope", func(c *Config) { c.Window.Scope = "focused" }},
		{"negative poll interval", func(c *Config) { c.Window.PollInterval = -time.Second }},
		{"unknown error format", func(c *Config) { c.Errors.Format = "json" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"empty identifier", func(c *Config) { c.Plugin.Identifier = " " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadFrom_RejectsInvalidFile(t *testing.T) {
	path := writeConfig(t, "errors:\n  format: xml\n")

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "errors.format")
}

func TestDefaultPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("home directory comes from USERPROFILE on windows")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "appcontrol", "config.yaml"), path)
}
