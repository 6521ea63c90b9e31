// Package cli implements the testapp command-line interface.
//
// Commands:
//   - serve: start the HTTP server in the foreground with graceful shutdown
//   - config: print the effective configuration after file and env merging
//   - version: show build and runtime version information
//
// The serve command constructs the item store, the simulation controller,
// and the backend client, wires them into the API server, and blocks until
// SIGINT or SIGTERM. Configuration precedence is defaults, then the config
// file, then TESTAPP_* environment variables, then flags.
package cli
