package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddress, cfg.ListenAddress)
	assert.Equal(t, int64(DefaultTickIntervalMS), cfg.TickIntervalMS)
	assert.Equal(t, int64(0), cfg.RestartIntervalMS)
	assert.False(t, cfg.RestartEnabled())
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dockwatch.yaml")
	data := `
listen: "127.0.0.1:9100"
restart_interval_ms: 60000
tick_interval_ms: 5000
docker_unix_socket: /var/run/docker.sock
log_level: debug
log_json: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:9100", cfg.ListenAddress)
	assert.Equal(t, time.Minute, cfg.RestartInterval())
	assert.Equal(t, 5*time.Second, cfg.TickInterval())
	assert.Equal(t, "/var/run/docker.sock", cfg.DockerUnixSocket)
	assert.True(t, cfg.RestartEnabled())
	assert.True(t, cfg.LogJSON)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dockwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \"127.0.0.1:9100\"\n"), 0o644))

	t.Setenv(EnvListen, "127.0.0.1:9200")
	t.Setenv(EnvRestartInterval, "30000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9200", cfg.ListenAddress)
	assert.Equal(t, 30*time.Second, cfg.RestartInterval())
}

func TestEnvParseError(t *testing.T) {
	t.Setenv(EnvTickInterval, "not-a-number")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty listen address",
			mutate:  func(c *Config) { c.ListenAddress = "" },
			wantErr: true,
		},
		{
			name:    "negative restart interval",
			mutate:  func(c *Config) { c.RestartIntervalMS = -1 },
			wantErr: true,
		},
		{
			name:    "zero tick interval",
			mutate:  func(c *Config) { c.TickIntervalMS = 0 },
			wantErr: true,
		},
		{
			name: "socket and url are mutually exclusive",
			mutate: func(c *Config) {
				c.DockerUnixSocket = "/var/run/docker.sock"
				c.DockerURL = "http://localhost:2375"
			},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
