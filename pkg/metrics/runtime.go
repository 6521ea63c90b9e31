package metrics

import (
	"runtime"
	"runtime/pprof"
	"time"
)

// RuntimeCollector samples Go runtime statistics into gauges.
type RuntimeCollector struct {
	goroutines   *Gauge
	threads      *Gauge
	heapAlloc    *Gauge
	heapSys      *Gauge
	heapIdle     *Gauge
	heapInuse    *Gauge
	heapObjects  *Gauge
	stackInuse   *Gauge
	gcPauseTotal *Gauge
	gcLastPause  *Gauge
	gcCycles     *Gauge
	goInfo       *Gauge

	// Uptime gauge (passed in from defaults)
	uptime *Gauge

	startTime time.Time
}

// NewRuntimeCollector registers the go_* runtime gauges on r and returns a
// collector for them. The uptimeGauge parameter should be the UptimeSeconds
// gauge from defaults.
func NewRuntimeCollector(r *Registry, uptimeGauge *Gauge) *RuntimeCollector {
	rc := &RuntimeCollector{
		startTime: time.Now(),
		uptime:    uptimeGauge,

		goroutines: r.NewGauge(
			"go_goroutines",
			"Number of goroutines that currently exist",
		),
		threads: r.NewGauge(
			"go_threads",
			"Number of OS threads created",
		),
		heapAlloc: r.NewGauge(
			"go_memstats_heap_alloc_bytes",
			"Number of heap bytes allocated and still in use",
		),
		heapSys: r.NewGauge(
			"go_memstats_heap_sys_bytes",
			"Number of heap bytes obtained from system",
		),
		heapIdle: r.NewGauge(
			"go_memstats_heap_idle_bytes",
			"Number of heap bytes waiting to be used",
		),
		heapInuse: r.NewGauge(
			"go_memstats_heap_inuse_bytes",
			"Number of heap bytes that are in use",
		),
		heapObjects: r.NewGauge(
			"go_memstats_heap_objects",
			"Number of allocated heap objects",
		),
		stackInuse: r.NewGauge(
			"go_memstats_stack_inuse_bytes",
			"Number of bytes in use by the stack allocator",
		),
		gcPauseTotal: r.NewGauge(
			"go_gc_duration_seconds",
			"Total GC pause duration in seconds",
		),
		gcLastPause: r.NewGauge(
			"go_gc_last_pause_seconds",
			"Duration of the last GC pause in seconds",
		),
		gcCycles: r.NewGauge(
			"go_gc_cycles_total",
			"Total number of completed GC cycles",
		),
		goInfo: r.NewGauge(
			"go_info",
			"Information about the Go environment",
			"version",
		),
	}

	if vec, err := rc.goInfo.WithLabels(runtime.Version()); err == nil {
		vec.Set(1)
	}

	return rc
}

// Collect updates all runtime metrics with current values.
// Call this periodically to keep the gauges fresh.
func (rc *RuntimeCollector) Collect() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	_ = rc.uptime.Set(time.Since(rc.startTime).Seconds())
	_ = rc.goroutines.Set(float64(runtime.NumGoroutine()))

	if numThreads, ok := NumOSThreads(); ok {
		_ = rc.threads.Set(float64(numThreads))
	}

	_ = rc.heapAlloc.Set(float64(mem.HeapAlloc))
	_ = rc.heapSys.Set(float64(mem.HeapSys))
	_ = rc.heapIdle.Set(float64(mem.HeapIdle))
	_ = rc.heapInuse.Set(float64(mem.HeapInuse))
	_ = rc.heapObjects.Set(float64(mem.HeapObjects))
	_ = rc.stackInuse.Set(float64(mem.StackInuse))

	// PauseTotalNs is the authoritative cumulative total; the PauseNs
	// circular buffer wraps after 256 entries.
	_ = rc.gcPauseTotal.Set(float64(mem.PauseTotalNs) / 1e9)

	if mem.NumGC > 0 {
		lastPause := mem.PauseNs[(mem.NumGC-1)%256]
		_ = rc.gcLastPause.Set(float64(lastPause) / 1e9)
	}
	_ = rc.gcCycles.Set(float64(mem.NumGC))
}

// NumOSThreads returns the number of OS threads via the pprof
// "threadcreate" profile, which tracks threads created by the runtime.
// The thread inspection endpoint reuses this probe.
func NumOSThreads() (int, bool) {
	p := pprof.Lookup("threadcreate")
	if p == nil {
		return 0, false
	}
	return p.Count(), true
}

// StartCollector starts a goroutine that periodically collects runtime metrics.
// Returns a stop function to cancel the collection.
func (rc *RuntimeCollector) StartCollector(interval time.Duration) func() {
	// Collect once before returning so even an immediate scrape sees
	// values.
	rc.Collect()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rc.Collect()
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}
