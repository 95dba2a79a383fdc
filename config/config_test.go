package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "py2many", cfg.Binary)
	assert.Equal(t, "z3", cfg.Z3Binary)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, 5*time.Second, cfg.GracePeriod)
	assert.Equal(t, DefaultMaxStderr, cfg.MaxStderrBytes)
	assert.Zero(t, cfg.MaxConcurrent)
	require.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_YAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
binary: uvx
args: [py2many]
timeout: 30s
max_concurrent: 4
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "uvx", cfg.Binary)
	assert.Equal(t, []string{"py2many"}, cfg.Args)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.EqualValues(t, 4, cfg.MaxConcurrent)
	// Untouched fields keep their defaults.
	assert.Equal(t, "z3", cfg.Z3Binary)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("binary: from-file\ntimeout: 30s\n"), 0o600))

	t.Setenv("PY2MANY_MCP_BINARY", "from-env")
	t.Setenv("PY2MANY_MCP_TIMEOUT", "90s")
	t.Setenv("PY2MANY_MCP_MAX_CONCURRENT", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Binary)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.EqualValues(t, 2, cfg.MaxConcurrent)
}

func TestLoad_BadEnvDuration(t *testing.T) {
	t.Setenv("PY2MANY_MCP_TIMEOUT", "not-a-duration")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"missing binary", func(c *Config) { c.Binary = "" }, ErrBinaryRequired},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrTimeoutInvalid},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, ErrTimeoutInvalid},
		{"negative concurrency", func(c *Config) { c.MaxConcurrent = -1 }, ErrNegativeSetting},
		{"negative stderr cap", func(c *Config) { c.MaxStderrBytes = -1 }, ErrNegativeSetting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}
