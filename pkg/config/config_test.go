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

	assert.Equal(t, "Test Go Application", cfg.App.Name)
	assert.Equal(t, "2.0.0", cfg.App.Version)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
	assert.Equal(t, 0, cfg.Server.WriteTimeout)
	assert.Equal(t, 5, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30, cfg.Simulation.DefaultBlockDuration)
	assert.Equal(t, 300, cfg.Simulation.MaxTimeoutDuration)
	assert.Equal(t, "http://localhost:8080", cfg.Backend.BaseURL)
	assert.Equal(t, 30, cfg.Backend.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty host",
			mutate:  func(c *Config) { c.Server.Host = "" },
			wantErr: "server.host",
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "negative read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = -1 },
			wantErr: "server.readTimeout",
		},
		{
			name:    "shutdown timeout zero",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			wantErr: "server.shutdownTimeout",
		},
		{
			name:    "block duration zero",
			mutate:  func(c *Config) { c.Simulation.DefaultBlockDuration = 0 },
			wantErr: "simulation.defaultBlockDuration",
		},
		{
			name:    "max timeout zero",
			mutate:  func(c *Config) { c.Simulation.MaxTimeoutDuration = 0 },
			wantErr: "simulation.maxTimeoutDuration",
		},
		{
			name:    "write timeout below max timeout",
			mutate:  func(c *Config) { c.Server.WriteTimeout = 60 },
			wantErr: "server.writeTimeout",
		},
		{
			name:    "empty backend url",
			mutate:  func(c *Config) { c.Backend.BaseURL = "" },
			wantErr: "backend.baseUrl",
		},
		{
			name:    "backend url without scheme",
			mutate:  func(c *Config) { c.Backend.BaseURL = "localhost:8080" },
			wantErr: "backend.baseUrl",
		},
		{
			name:    "backend timeout zero",
			mutate:  func(c *Config) { c.Backend.Timeout = 0 },
			wantErr: "backend.timeout",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateWriteTimeoutAboveMax(t *testing.T) {
	cfg := Default()
	cfg.Server.WriteTimeout = 301

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	content := `
server:
  port: 9000
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 30, cfg.Simulation.DefaultBlockDuration)
	assert.Equal(t, "http://localhost:8080", cfg.Backend.BaseURL)
}

func TestLoadFromFile_JSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")

	content := `{
		"server": {"host": "127.0.0.1", "port": 8088},
		"backend": {"baseUrl": "https://backend.internal:9090"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "https://backend.internal:9090", cfg.Backend.BaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	cfg, err := LoadFromFile("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadFromFile_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	cfg, err := LoadFromFile(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestLoadFromFile_Directory(t *testing.T) {
	cfg, err := LoadFromFile(t.TempDir())
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "directory")
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

	cfg, err := LoadFromFile(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestLoadFromFile_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{ invalid json }"), 0644))

	cfg, err := LoadFromFile(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestLoadFromFile_ValidationError(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bad-port.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 99999\n"), 0644))

	cfg, err := LoadFromFile(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "validation")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvHost, "127.0.0.1")
	t.Setenv(EnvPort, "9999")
	t.Setenv(EnvBlockDuration, "60")
	t.Setenv(EnvMaxTimeout, "120")
	t.Setenv(EnvBackendURL, "http://backend:8081")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogFormat, "json")

	cfg := Default()
	ApplyEnv(cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 60, cfg.Simulation.DefaultBlockDuration)
	assert.Equal(t, 120, cfg.Simulation.MaxTimeoutDuration)
	assert.Equal(t, "http://backend:8081", cfg.Backend.BaseURL)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestApplyEnv_IgnoresUnparseable(t *testing.T) {
	t.Setenv(EnvPort, "not-a-number")

	cfg := Default()
	ApplyEnv(cfg)

	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestLoad_Precedence(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	content := `
server:
  port: 9000
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	// Environment beats the file; file beats the defaults.
	t.Setenv(EnvPort, "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8500\n"), 0644))

	t.Setenv(EnvConfig, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8500, cfg.Server.Port)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv(EnvLogLevel, "loud")

	cfg, err := Load("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestServerConfig_Addr(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())

	cfg.Server.Host = "localhost"
	cfg.Server.Port = 9000
	assert.Equal(t, "localhost:9000", cfg.Server.Addr())
}

func TestSimulationConfig_Durations(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 30*time.Second, cfg.Simulation.HoldDuration())
	assert.Equal(t, 300*time.Second, cfg.Simulation.MaxTimeout())
}
