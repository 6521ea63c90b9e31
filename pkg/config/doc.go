// Package config provides configuration types and loading for the API server.
//
// Configuration is assembled from three sources with ascending precedence:
//
//  1. Built-in defaults (Default)
//  2. An optional YAML or JSON file (LoadFromFile, --config flag or
//     TESTAPP_CONFIG)
//  3. Environment variables (ApplyEnv, TESTAPP_* names)
//
// CLI flags are applied on top by the serve command. Load runs the full
// chain and validates the result.
//
// The file format follows the Config structure; absent keys keep their
// defaults:
//
//	app:
//	  name: Test Go Application
//	server:
//	  host: 0.0.0.0
//	  port: 8000
//	simulation:
//	  defaultBlockDuration: 30
//	  maxTimeoutDuration: 300
//	backend:
//	  baseUrl: http://localhost:8080
//	logging:
//	  level: info
//	  format: text
//
// Validate rejects out-of-range ports and durations, unknown log levels
// and formats, and backend URLs that are not http(s). A positive server
// write timeout must exceed the simulation max timeout so that long
// timeout responses are not cut off.
package config
