// Package logging provides structured logging configuration for testapp.
//
// This package wraps log/slog to provide consistent logging across all
// application components. It supports configurable log levels and output
// formats.
//
// # Usage
//
// Create a logger with desired configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("server started", "port", 8000)
//	logger.Error("request failed", "error", err)
//
// # Output Formats
//
//   - Text: human-readable format for development
//   - JSON: structured format for log aggregation systems
//
// # Integration
//
// Components accept a *slog.Logger in their constructor or via an option.
// When a logger is required but logging is unwanted (tests, mostly), pass
// logging.Nop().
package logging
