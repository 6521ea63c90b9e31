// Package metrics provides Prometheus-compatible metrics collection for the API server.
//
// This package implements the Prometheus text exposition format (text/plain; version=0.0.4)
// without any external dependencies, using only the standard library.
//
// Supported metric types:
//   - Counter: monotonically increasing value (e.g., request counts)
//   - Gauge: value that can go up or down (e.g., blocked workers)
//   - Histogram: distribution of values with configurable buckets (e.g., latencies)
//
// All metrics are thread-safe and can be updated from multiple goroutines.
//
// # Default Metrics
//
// The package provides pre-defined metrics for tracking server activity:
//
//   - testapp_requests_total: Counter for handled HTTP requests (labels: method, path, status)
//   - testapp_request_duration_seconds: Histogram for request latency (labels: method, path)
//   - testapp_items_count: Gauge for the number of stored items
//   - testapp_items_created_total / _updated_total / _deleted_total: item lifecycle counters
//   - testapp_searches_total: Counter for item searches
//   - testapp_blocking_simulations_total: Counter for triggered blocking simulations
//   - testapp_timeout_simulations_total: Counter for completed timeout simulations
//   - testapp_blocked_workers_count: Gauge for workers contending on the blocking lock
//   - testapp_proxy_requests_total: Counter for backend-forwarded requests (labels: method, status)
//   - testapp_errors_total: Counter for client-visible errors (label: kind)
//   - testapp_uptime_seconds: Gauge for server uptime
//
// A runtime collector additionally exports go_* gauges (goroutines, OS threads,
// heap and GC statistics) sampled on a fixed interval.
//
// # Label Conventions
//
// Labels keep cardinality bounded:
//
//   - method: uppercase HTTP method (GET, POST)
//   - path: the registered route pattern, never the raw URL
//   - status: numeric HTTP status code as a string (200, 404)
//   - kind: validation, not_found, upstream, internal
//
// # Usage
//
//	// Initialize the default metrics registry
//	registry := metrics.Init()
//
//	// HTTP request
//	metrics.RequestsTotal.WithLabels("GET", "/items", "200").Inc()
//	metrics.RequestDuration.WithLabels("GET", "/items").Observe(0.123)
//
//	// Domain events
//	metrics.ItemsCreatedTotal.Inc()
//	metrics.BlockedWorkers.Set(2)
//
//	// Register the /metrics endpoint
//	http.Handle("/metrics", registry.Handler())
//
// Custom metrics can also be created:
//
//	registry := metrics.NewRegistry()
//	counter := registry.NewCounter("my_counter", "Description of counter", "label1", "label2")
//	counter.WithLabels("value1", "value2").Inc()
package metrics
