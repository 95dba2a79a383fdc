package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultBinary         = "py2many"
	DefaultZ3Binary       = "z3"
	DefaultTimeout        = 60 * time.Second
	DefaultGracePeriod    = 5 * time.Second
	DefaultMaxStderr      = 4096
	DefaultMaxOutputBytes = 1 << 20
)

// Errors returned by Validate.
var (
	ErrBinaryRequired  = errors.New("config: binary is required")
	ErrTimeoutInvalid  = errors.New("config: timeout must be positive")
	ErrNegativeSetting = errors.New("config: negative setting")
)

// Config is the resolved process configuration.
type Config struct {
	// Binary is the transpiler executable. May be a runner such as
	// "uvx"; Args then carries the real tool name.
	Binary string `yaml:"binary"`

	// Args are fixed arguments always placed before per-call arguments.
	Args []string `yaml:"args"`

	// Z3Binary is the SMT solver executable used by verify_python.
	Z3Binary string `yaml:"z3_binary"`

	// Timeout is the wall-clock budget per external process.
	Timeout time.Duration `yaml:"timeout"`

	// GracePeriod is how long a signaled process may linger before being
	// forcibly killed.
	GracePeriod time.Duration `yaml:"grace_period"`

	// MaxStderrBytes bounds the stderr excerpt surfaced to callers.
	MaxStderrBytes int `yaml:"max_stderr_bytes"`

	// MaxOutputBytes caps each captured process stream.
	MaxOutputBytes int64 `yaml:"max_output_bytes"`

	// MaxConcurrent bounds concurrent transpiler processes. Zero means
	// unbounded.
	MaxConcurrent int64 `yaml:"max_concurrent"`

	// WorkDir is the base directory for invocation workspaces.
	// Empty means the OS temp directory.
	WorkDir string `yaml:"work_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Binary:         DefaultBinary,
		Z3Binary:       DefaultZ3Binary,
		Timeout:        DefaultTimeout,
		GracePeriod:    DefaultGracePeriod,
		MaxStderrBytes: DefaultMaxStderr,
		MaxOutputBytes: DefaultMaxOutputBytes,
	}
}

// Load resolves configuration from defaults, then the YAML file at path
// (skipped when path is empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from PY2MANY_MCP_* environment variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("PY2MANY_MCP_BINARY"); v != "" {
		c.Binary = v
	}
	if v := os.Getenv("PY2MANY_MCP_Z3_BINARY"); v != "" {
		c.Z3Binary = v
	}
	if v := os.Getenv("PY2MANY_MCP_WORKDIR"); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv("PY2MANY_MCP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: PY2MANY_MCP_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("PY2MANY_MCP_GRACE_PERIOD"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: PY2MANY_MCP_GRACE_PERIOD: %w", err)
		}
		c.GracePeriod = d
	}
	if v := os.Getenv("PY2MANY_MCP_MAX_CONCURRENT"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: PY2MANY_MCP_MAX_CONCURRENT: %w", err)
		}
		c.MaxConcurrent = n
	}
	return nil
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if c.Binary == "" {
		return ErrBinaryRequired
	}
	if c.Timeout <= 0 {
		return ErrTimeoutInvalid
	}
	if c.GracePeriod < 0 || c.MaxStderrBytes < 0 || c.MaxOutputBytes < 0 || c.MaxConcurrent < 0 {
		return ErrNegativeSetting
	}
	return nil
}
