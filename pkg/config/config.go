package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultListenAddress is where the metrics endpoint binds when no
	// override is given.
	DefaultListenAddress = "0.0.0.0:9092"

	// DefaultTickIntervalMS is the reconciliation period in milliseconds.
	DefaultTickIntervalMS = 10000
)

// Environment variable names recognized by Load. Each overrides the
// corresponding file value and is in turn overridden by an explicit flag.
const (
	EnvListen          = "DOCKWATCH_LISTEN"
	EnvRestartInterval = "DOCKWATCH_RESTART_INTERVAL"
	EnvTickInterval    = "DOCKWATCH_TICK_INTERVAL"
	EnvDockerSocket    = "DOCKWATCH_DOCKER_UNIX_SOCKET"
	EnvDockerURL       = "DOCKWATCH_DOCKER_URL"
)

// Config holds the full runtime configuration for dockwatch.
//
// Precedence, lowest to highest: built-in defaults, YAML config file,
// environment variables, command-line flags.
type Config struct {
	// ListenAddress is the bind address of the HTTP scrape endpoint.
	ListenAddress string `yaml:"listen"`

	// RestartIntervalMS is how long a container must stay unhealthy before
	// a restart is issued, in milliseconds. Zero disables restarts entirely
	// (observe-only mode).
	RestartIntervalMS int64 `yaml:"restart_interval_ms"`

	// TickIntervalMS is the reconciliation loop period in milliseconds.
	TickIntervalMS int64 `yaml:"tick_interval_ms"`

	// DockerUnixSocket is an explicit Docker daemon socket path. Mutually
	// exclusive with DockerURL. When both are empty the client uses the
	// standard Docker environment (DOCKER_HOST and friends).
	DockerUnixSocket string `yaml:"docker_unix_socket"`

	// DockerURL is an explicit Docker daemon HTTP(S) endpoint.
	DockerURL string `yaml:"docker_url"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogJSON switches log output from console to JSON format.
	LogJSON bool `yaml:"log_json"`
}

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		ListenAddress:  DefaultListenAddress,
		TickIntervalMS: DefaultTickIntervalMS,
		LogLevel:       "info",
	}
}

// Load builds a Config from defaults, an optional YAML file, and the
// environment. Flag overrides are applied by the caller afterwards.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvListen); v != "" {
		c.ListenAddress = v
	}
	if v := os.Getenv(EnvDockerSocket); v != "" {
		c.DockerUnixSocket = v
	}
	if v := os.Getenv(EnvDockerURL); v != "" {
		c.DockerURL = v
	}
	if v := os.Getenv(EnvRestartInterval); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvRestartInterval, err)
		}
		c.RestartIntervalMS = ms
	}
	if v := os.Getenv(EnvTickInterval); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvTickInterval, err)
		}
		c.TickIntervalMS = ms
	}
	return nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.ListenAddress == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.RestartIntervalMS < 0 {
		return fmt.Errorf("restart interval must not be negative")
	}
	if c.TickIntervalMS <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if c.DockerUnixSocket != "" && c.DockerURL != "" {
		return fmt.Errorf("docker unix socket and docker url are mutually exclusive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// RestartInterval returns the configured restart grace period, or zero when
// restarts are disabled.
func (c *Config) RestartInterval() time.Duration {
	return time.Duration(c.RestartIntervalMS) * time.Millisecond
}

// RestartEnabled reports whether the supervisor should issue restarts.
func (c *Config) RestartEnabled() bool {
	return c.RestartIntervalMS > 0
}

// TickInterval returns the reconciliation loop period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}
