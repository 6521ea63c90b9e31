// Package config provides configuration types and loading for the API server.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Default configuration values.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8000
	DefaultReadTimeout     = 30 // seconds
	DefaultShutdownTimeout = 5  // seconds

	DefaultBlockDuration      = 30  // seconds
	DefaultMaxTimeoutDuration = 300 // seconds

	DefaultBackendBaseURL = "http://localhost:8080"
	DefaultBackendTimeout = 30 // seconds
)

// Config is the root configuration for the server.
type Config struct {
	App        AppConfig        `json:"app" yaml:"app"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Backend    BackendConfig    `json:"backend" yaml:"backend"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

// AppConfig identifies the application.
type AppConfig struct {
	// Name is the human-readable application name.
	Name string `json:"name" yaml:"name"`

	// Version is the application version reported by info endpoints.
	Version string `json:"version" yaml:"version"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Host is the interface to bind (default 0.0.0.0).
	Host string `json:"host" yaml:"host"`

	// Port is the TCP port to listen on (default 8000).
	Port int `json:"port" yaml:"port"`

	// ReadTimeout is the request read timeout in seconds.
	ReadTimeout int `json:"readTimeout" yaml:"readTimeout"`

	// WriteTimeout is the response write timeout in seconds.
	// 0 disables the limit; a positive value must exceed the simulation
	// max timeout or long timeout responses get cut off mid-flight.
	WriteTimeout int `json:"writeTimeout" yaml:"writeTimeout"`

	// ShutdownTimeout bounds graceful shutdown in seconds.
	ShutdownTimeout int `json:"shutdownTimeout" yaml:"shutdownTimeout"`
}

// SimulationConfig holds the blocking/timeout simulation settings.
type SimulationConfig struct {
	// DefaultBlockDuration is how long a blocking worker holds the shared
	// lock, in seconds (default 30).
	DefaultBlockDuration int `json:"defaultBlockDuration" yaml:"defaultBlockDuration"`

	// MaxTimeoutDuration caps the timeout simulation, in seconds (default 300).
	MaxTimeoutDuration int `json:"maxTimeoutDuration" yaml:"maxTimeoutDuration"`
}

// BackendConfig holds settings for the proxied backend service.
type BackendConfig struct {
	// BaseURL is the backend base URL (default http://localhost:8080).
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`

	// Timeout is the default backend request timeout in seconds.
	// Test-scenario triggers extend it to outlast the scenario itself.
	Timeout int `json:"timeout" yaml:"timeout"`
}

// LoggingConfig holds the logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// Format is one of text, json (default text).
	Format string `json:"format" yaml:"format"`

	// File, when set, tees a JSON copy of every record into this file
	// in addition to the console output.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:    "Test Go Application",
			Version: "2.0.0",
		},
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    0,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Simulation: SimulationConfig{
			DefaultBlockDuration: DefaultBlockDuration,
			MaxTimeoutDuration:   DefaultMaxTimeoutDuration,
		},
		Backend: BackendConfig{
			BaseURL: DefaultBackendBaseURL,
			Timeout: DefaultBackendTimeout,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("server.host cannot be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server.readTimeout cannot be negative, got %d", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server.writeTimeout cannot be negative, got %d", c.Server.WriteTimeout)
	}
	if c.Server.ShutdownTimeout < 1 {
		return fmt.Errorf("server.shutdownTimeout must be at least 1, got %d", c.Server.ShutdownTimeout)
	}

	if c.Simulation.DefaultBlockDuration < 1 {
		return fmt.Errorf("simulation.defaultBlockDuration must be at least 1, got %d",
			c.Simulation.DefaultBlockDuration)
	}
	if c.Simulation.MaxTimeoutDuration < 1 {
		return fmt.Errorf("simulation.maxTimeoutDuration must be at least 1, got %d",
			c.Simulation.MaxTimeoutDuration)
	}
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= c.Simulation.MaxTimeoutDuration {
		return fmt.Errorf("server.writeTimeout (%d) must be 0 or greater than simulation.maxTimeoutDuration (%d)",
			c.Server.WriteTimeout, c.Simulation.MaxTimeoutDuration)
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.baseUrl cannot be empty")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.baseUrl is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.baseUrl must use http or https, got %q", c.Backend.BaseURL)
	}
	if c.Backend.Timeout < 1 {
		return fmt.Errorf("backend.timeout must be at least 1, got %d", c.Backend.Timeout)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HoldDuration returns the block hold duration as a time.Duration.
func (c SimulationConfig) HoldDuration() time.Duration {
	return time.Duration(c.DefaultBlockDuration) * time.Second
}

// MaxTimeout returns the timeout simulation cap as a time.Duration.
func (c SimulationConfig) MaxTimeout() time.Duration {
	return time.Duration(c.MaxTimeoutDuration) * time.Second
}
