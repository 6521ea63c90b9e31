package simulation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/k8s-lovers-korea/test-go-app/internal/id"
	"github.com/k8s-lovers-korea/test-go-app/pkg/validation"
)

// Defaults and bounds for the simulation controller.
const (
	// DefaultHoldDuration is how long a blocking worker holds the lock.
	DefaultHoldDuration = 30 * time.Second

	// DefaultMaxTimeout caps the timeout simulator's requested duration.
	DefaultMaxTimeout = 300 * time.Second

	// MinTimeoutSeconds is the smallest accepted timeout duration.
	MinTimeoutSeconds = 1
)

// Config configures a Controller. Zero values fall back to the defaults
// above.
type Config struct {
	// HoldDuration is how long each blocking worker sleeps while holding
	// the blocking lock.
	HoldDuration time.Duration

	// MaxTimeout bounds the duration accepted by SimulateTimeout.
	MaxTimeout time.Duration

	// Logger receives worker lifecycle events.
	Logger *slog.Logger
}

// Controller owns the blocking-simulation state: the strictly non-reentrant
// blocking lock and the set of workers currently waiting on or holding it.
//
// The blocking lock is a plain sync.Mutex on purpose. Contention on it is
// the behavior under test; a second worker must queue until the first
// releases.
type Controller struct {
	blockMu sync.Mutex

	workersMu sync.RWMutex
	workers   []string

	holdDuration time.Duration
	maxTimeout   time.Duration
	log          *slog.Logger
}

// NewController creates a Controller with defaults applied for any unset
// config field.
func NewController(cfg Config) *Controller {
	if cfg.HoldDuration <= 0 {
		cfg.HoldDuration = DefaultHoldDuration
	}
	if cfg.MaxTimeout <= 0 {
		cfg.MaxTimeout = DefaultMaxTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Controller{
		holdDuration: cfg.HoldDuration,
		maxTimeout:   cfg.MaxTimeout,
		log:          cfg.Logger,
	}
}

// BlockReceipt is returned to the caller that triggered a blocking worker.
type BlockReceipt struct {
	// WorkerID identifies the spawned worker.
	WorkerID string

	// BlockedWorkers is the worker-set size right after this worker
	// registered, so it always counts the new worker.
	BlockedWorkers int

	// HoldDuration is how long the worker will hold the lock once
	// acquired.
	HoldDuration time.Duration
}

// BlockStatus is a point-in-time view of the blocking simulation.
type BlockStatus struct {
	// BlockedWorkers is the number of workers waiting on or holding the
	// blocking lock.
	BlockedWorkers int

	// WorkerIDs lists those workers in registration order.
	WorkerIDs []string

	// LockAvailable reports whether the blocking lock could be acquired
	// without blocking at probe time.
	LockAvailable bool
}

// TimeoutReport describes one completed timeout simulation.
type TimeoutReport struct {
	// Requested is the duration the caller asked for.
	Requested time.Duration

	// Elapsed is the measured wall time of the suspension. It is never
	// less than Requested; the scheduler may make it longer.
	Elapsed time.Duration

	// CompletedAt is when the suspension finished.
	CompletedAt time.Time
}

// Stats is the controller's read-only introspection view.
type Stats struct {
	// BlockedWorkers is the current worker-set size.
	BlockedWorkers int

	// LockAvailable reports whether the blocking lock is currently free.
	LockAvailable bool
}

// TriggerBlock registers a new worker and spawns it in the background. It
// returns as soon as the worker is registered; it never waits for the
// worker to acquire the lock, let alone finish.
//
// Once started a worker runs to completion. There is no cancellation and
// no cap on how many workers may queue behind the lock; the queue depth is
// observable through BlockStatus.
func (c *Controller) TriggerBlock() BlockReceipt {
	workerID := id.Worker()
	count := c.register(workerID)

	c.log.Info("blocking simulation started",
		"worker_id", workerID,
		"hold_duration", c.holdDuration,
		"blocked_workers", count)

	go c.runBlockingWorker(workerID)

	return BlockReceipt{
		WorkerID:       workerID,
		BlockedWorkers: count,
		HoldDuration:   c.holdDuration,
	}
}

// runBlockingWorker acquires the blocking lock, holds it for the configured
// duration, and releases it. A worker that fails unexpectedly is logged and
// terminates; nothing propagates back to the triggering request.
func (c *Controller) runBlockingWorker(workerID string) {
	defer c.deregister(workerID)
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("blocking worker failed",
				"worker_id", workerID,
				"panic", r)
		}
	}()

	c.log.Info("worker acquiring blocking lock", "worker_id", workerID)
	c.blockMu.Lock()

	c.log.Info("worker holding blocking lock",
		"worker_id", workerID,
		"hold_duration", c.holdDuration)
	time.Sleep(c.holdDuration)

	c.blockMu.Unlock()
	c.log.Info("worker released blocking lock", "worker_id", workerID)
}

// BlockStatus reports the current worker set and lock availability. The
// availability probe never blocks.
func (c *Controller) BlockStatus() BlockStatus {
	c.workersMu.RLock()
	ids := append([]string{}, c.workers...)
	c.workersMu.RUnlock()

	return BlockStatus{
		BlockedWorkers: len(ids),
		WorkerIDs:      ids,
		LockAvailable:  c.lockAvailable(),
	}
}

// SimulateTimeout suspends the calling goroutine for the given number of
// seconds and reports the requested and measured durations. It holds no
// lock while suspended. Durations outside [1, max] fail validation; the
// suspension ends early only when ctx is done, in which case the context's
// error is returned.
func (c *Controller) SimulateTimeout(ctx context.Context, seconds int) (*TimeoutReport, error) {
	maxSeconds := int(c.maxTimeout / time.Second)
	result := validation.NewResult()
	if seconds < MinTimeoutSeconds {
		result.AddError(validation.NewMinError("duration", validation.LocationPath, MinTimeoutSeconds, seconds))
	} else if seconds > maxSeconds {
		result.AddError(validation.NewMaxError("duration", validation.LocationPath, float64(maxSeconds), seconds))
	}
	if err := result.Err(); err != nil {
		return nil, err
	}

	requested := time.Duration(seconds) * time.Second
	c.log.Info("timeout simulation started", "requested", requested)

	start := time.Now()
	select {
	case <-ctx.Done():
		c.log.Info("timeout simulation canceled",
			"requested", requested,
			"elapsed", time.Since(start))
		return nil, ctx.Err()
	case <-time.After(requested):
	}
	elapsed := time.Since(start)

	c.log.Info("timeout simulation completed",
		"requested", requested,
		"elapsed", elapsed)

	return &TimeoutReport{
		Requested:   requested,
		Elapsed:     elapsed,
		CompletedAt: time.Now().UTC(),
	}, nil
}

// Stats reports the worker count and lock availability without blocking.
func (c *Controller) Stats() Stats {
	c.workersMu.RLock()
	count := len(c.workers)
	c.workersMu.RUnlock()

	return Stats{
		BlockedWorkers: count,
		LockAvailable:  c.lockAvailable(),
	}
}

// MaxTimeoutSeconds returns the configured timeout cap in whole seconds.
func (c *Controller) MaxTimeoutSeconds() int {
	return int(c.maxTimeout / time.Second)
}

// HoldDuration returns how long each blocking worker holds the lock.
func (c *Controller) HoldDuration() time.Duration {
	return c.holdDuration
}

func (c *Controller) register(workerID string) int {
	c.workersMu.Lock()
	defer c.workersMu.Unlock()
	c.workers = append(c.workers, workerID)
	return len(c.workers)
}

func (c *Controller) deregister(workerID string) {
	c.workersMu.Lock()
	defer c.workersMu.Unlock()
	for i, w := range c.workers {
		if w == workerID {
			c.workers = append(c.workers[:i], c.workers[i+1:]...)
			return
		}
	}
}

// lockAvailable probes the blocking lock without waiting on it. A
// successful probe releases the lock immediately.
func (c *Controller) lockAvailable() bool {
	if c.blockMu.TryLock() {
		c.blockMu.Unlock()
		return true
	}
	return false
}
