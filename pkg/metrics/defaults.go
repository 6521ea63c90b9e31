package metrics

import (
	"sync"
	"time"
)

// Default metrics for the API server.
// These are initialized by calling Init().
//
// Label conventions: method carries the uppercase HTTP method, path the
// registered route pattern (not the raw URL, to keep cardinality bounded),
// status the numeric HTTP status code as a string.
var (
	// RequestsTotal counts handled HTTP requests.
	// Labels: method, path, status
	RequestsTotal *Counter

	// RequestDuration tracks request handling duration in seconds.
	// Labels: method, path
	RequestDuration *Histogram

	// ItemsCount is a gauge of the current number of stored items.
	ItemsCount *Gauge

	// ItemsCreatedTotal counts item creations, including bulk ones.
	ItemsCreatedTotal *Counter

	// ItemsUpdatedTotal counts item updates, including bulk ones.
	ItemsUpdatedTotal *Counter

	// ItemsDeletedTotal counts item deletions, including bulk ones.
	ItemsDeletedTotal *Counter

	// SearchesTotal counts search requests.
	SearchesTotal *Counter

	// BlockingSimulationsTotal counts triggered blocking simulations.
	BlockingSimulationsTotal *Counter

	// TimeoutSimulationsTotal counts completed timeout simulations.
	TimeoutSimulationsTotal *Counter

	// BlockedWorkers is a gauge of workers waiting on or holding the
	// blocking lock.
	BlockedWorkers *Gauge

	// ProxyRequestsTotal counts requests forwarded to the backend service.
	// Labels: method, status
	ProxyRequestsTotal *Counter

	// ErrorsTotal counts errors surfaced to clients by kind.
	// Labels: kind (validation, not_found, upstream, internal)
	ErrorsTotal *Counter

	// UptimeSeconds is a gauge of the server uptime in seconds.
	UptimeSeconds *Gauge

	// RuntimeCollectorInstance is the Go runtime metrics collector.
	RuntimeCollectorInstance *RuntimeCollector

	// runtimeCollectorStop stops the runtime collector goroutine.
	runtimeCollectorStop func()

	// defaultRegistry is the global metrics registry.
	defaultRegistry *Registry

	// initOnce ensures Init() is only called once.
	initOnce sync.Once
)

// Init initializes the default metrics and returns the registry.
// This function is idempotent and safe to call multiple times.
func Init() *Registry {
	initOnce.Do(func() {
		defaultRegistry = NewRegistry()

		RequestsTotal = defaultRegistry.NewCounter(
			"testapp_requests_total",
			"Total number of handled HTTP requests",
			"method", "path", "status",
		)

		RequestDuration = defaultRegistry.NewHistogram(
			"testapp_request_duration_seconds",
			"Duration of HTTP requests in seconds",
			DefaultBuckets,
			"method", "path",
		)

		ItemsCount = defaultRegistry.NewGauge(
			"testapp_items_count",
			"Current number of stored items",
		)

		ItemsCreatedTotal = defaultRegistry.NewCounter(
			"testapp_items_created_total",
			"Total number of items created",
		)

		ItemsUpdatedTotal = defaultRegistry.NewCounter(
			"testapp_items_updated_total",
			"Total number of items updated",
		)

		ItemsDeletedTotal = defaultRegistry.NewCounter(
			"testapp_items_deleted_total",
			"Total number of items deleted",
		)

		SearchesTotal = defaultRegistry.NewCounter(
			"testapp_searches_total",
			"Total number of item searches",
		)

		BlockingSimulationsTotal = defaultRegistry.NewCounter(
			"testapp_blocking_simulations_total",
			"Total number of triggered blocking simulations",
		)

		TimeoutSimulationsTotal = defaultRegistry.NewCounter(
			"testapp_timeout_simulations_total",
			"Total number of completed timeout simulations",
		)

		BlockedWorkers = defaultRegistry.NewGauge(
			"testapp_blocked_workers_count",
			"Number of workers waiting on or holding the blocking lock",
		)

		ProxyRequestsTotal = defaultRegistry.NewCounter(
			"testapp_proxy_requests_total",
			"Total number of requests forwarded to the backend service",
			"method", "status",
		)

		ErrorsTotal = defaultRegistry.NewCounter(
			"testapp_errors_total",
			"Total number of client-visible errors by kind",
			"kind",
		)

		UptimeSeconds = defaultRegistry.NewGauge(
			"testapp_uptime_seconds",
			"Server uptime in seconds",
		)

		RuntimeCollectorInstance = NewRuntimeCollector(defaultRegistry, UptimeSeconds)
		runtimeCollectorStop = RuntimeCollectorInstance.StartCollector(10 * time.Second)
	})

	return defaultRegistry
}

// DefaultRegistry returns the default metrics registry.
// Returns nil if Init() has not been called.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Reset resets all default metrics. Useful for testing.
// This also resets the initOnce, allowing Init() to be called again.
func Reset() {
	if runtimeCollectorStop != nil {
		runtimeCollectorStop()
		runtimeCollectorStop = nil
	}

	initOnce = sync.Once{}
	defaultRegistry = nil
	RequestsTotal = nil
	RequestDuration = nil
	ItemsCount = nil
	ItemsCreatedTotal = nil
	ItemsUpdatedTotal = nil
	ItemsDeletedTotal = nil
	SearchesTotal = nil
	BlockingSimulationsTotal = nil
	TimeoutSimulationsTotal = nil
	BlockedWorkers = nil
	ProxyRequestsTotal = nil
	ErrorsTotal = nil
	UptimeSeconds = nil
	RuntimeCollectorInstance = nil
}
