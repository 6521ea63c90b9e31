// Package simulation provides controlled concurrency scenarios for load and
// resilience testing.
//
// The package exists to let clients observe how the service behaves under
// deliberate resource contention and slow responses, without involving any
// external system.
//
// # Blocking Simulation
//
// TriggerBlock spawns a background worker that queues on a strictly
// non-reentrant lock, holds it for a fixed duration, and releases it. The
// lock contention is the point: triggering the simulation twice makes the
// second worker wait for the first, emulating pool exhaustion.
//
//	ctrl := simulation.NewController(simulation.Config{Logger: log})
//	receipt := ctrl.TriggerBlock()
//	fmt.Println(receipt.WorkerID, receipt.BlockedWorkers)
//
// The triggering call returns immediately. Progress is observable only
// through BlockStatus, which reports the worker set and a non-blocking
// availability probe of the lock:
//
//	status := ctrl.BlockStatus()
//	fmt.Println(status.BlockedWorkers, status.LockAvailable)
//
// # Timeout Simulation
//
// SimulateTimeout suspends the calling goroutine for a requested number of
// seconds and reports both the requested and the measured duration. It
// holds no shared resource while suspended, so concurrent timeout
// simulations never delay each other.
//
//	report, err := ctrl.SimulateTimeout(ctx, 2)
//
// Requested durations are validated against [1, MaxTimeout]; out-of-range
// values fail with a validation error before any suspension happens.
//
// # Limitations
//
// Workers run to completion once started. There is no cancellation
// protocol and no cap on how many workers may queue behind the blocking
// lock.
package simulation
