package config

import (
	"os"
	"strconv"
)

// Environment variable names
const (
	EnvConfig          = "TESTAPP_CONFIG"
	EnvHost            = "TESTAPP_HOST"
	EnvPort            = "TESTAPP_PORT"
	EnvReadTimeout     = "TESTAPP_READ_TIMEOUT"
	EnvWriteTimeout    = "TESTAPP_WRITE_TIMEOUT"
	EnvShutdownTimeout = "TESTAPP_SHUTDOWN_TIMEOUT"
	EnvBlockDuration   = "TESTAPP_DEFAULT_BLOCK_DURATION"
	EnvMaxTimeout      = "TESTAPP_MAX_TIMEOUT_DURATION"
	EnvBackendURL      = "TESTAPP_BACKEND_API_BASE_URL"
	EnvBackendTimeout  = "TESTAPP_BACKEND_TIMEOUT"
	EnvLogLevel        = "TESTAPP_LOG_LEVEL"
	EnvLogFormat       = "TESTAPP_LOG_FORMAT"
	EnvLogFile         = "TESTAPP_LOG_FILE"
)

// ApplyEnv overrides configuration from environment variables.
// It only sets values that are present in the environment; unparseable
// values are ignored.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv(EnvReadTimeout); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.Server.ReadTimeout = timeout
		}
	}

	if v := os.Getenv(EnvWriteTimeout); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.Server.WriteTimeout = timeout
		}
	}

	if v := os.Getenv(EnvShutdownTimeout); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.Server.ShutdownTimeout = timeout
		}
	}

	if v := os.Getenv(EnvBlockDuration); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			cfg.Simulation.DefaultBlockDuration = seconds
		}
	}

	if v := os.Getenv(EnvMaxTimeout); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			cfg.Simulation.MaxTimeoutDuration = seconds
		}
	}

	if v := os.Getenv(EnvBackendURL); v != "" {
		cfg.Backend.BaseURL = v
	}

	if v := os.Getenv(EnvBackendTimeout); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.Backend.Timeout = timeout
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Logging.File = v
	}
}
