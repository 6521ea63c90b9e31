// Package api implements the application's HTTP surface: item CRUD and
// search, bulk operations, the blocking and timeout simulations, stats and
// actuator introspection, and the proxy routes that relay entity CRUD and
// test scenarios to the external backend service.
//
// The server is assembled with NewServer from a config.Config plus
// functional options for injecting collaborators (store, simulation
// controller, backend client, logger). Everything is served from a single
// listener; routes use Go 1.22 method patterns on a plain http.ServeMux.
//
// Handlers never leak internal error detail. Failures are logged with
// context and mapped to constant client-facing messages, with validation
// failures carrying structured per-field detail.
package api
