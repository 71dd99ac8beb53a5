// Package runner bounds how many scenario-generation runs execute
// concurrently and lets a caller cancel one in flight, adapting the
// worker pool's session-registry pattern to synchronous generation calls
// instead of a polled job queue.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Runner bounds concurrent scenario-generation runs and tracks their
// cancel functions by scenario id.
type Runner struct {
	sem chan struct{}

	mu      sync.RWMutex
	cancels map[string]context.CancelFunc
}

// New builds a Runner that admits at most maxConcurrent runs at a time.
func New(maxConcurrent int) *Runner {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Runner{
		sem:     make(chan struct{}, maxConcurrent),
		cancels: make(map[string]context.CancelFunc),
	}
}

// Run blocks until a concurrency slot is free, registers scenarioID's
// cancel function, executes fn, then unregisters and releases the slot.
// Cancelling ctx (directly, or via Cancel) interrupts fn through the
// context fn receives. If ctx is cancelled before a slot frees up, Run
// returns the zero value of T without calling fn.
func Run[T any](r *Runner, ctx context.Context, scenarioID string, fn func(ctx context.Context) T) T {
	var zero T
	select {
	case r.sem <- struct{}{}:
	case <-ctx.Done():
		return zero
	}
	defer func() { <-r.sem }()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.register(scenarioID, cancel)
	defer r.unregister(scenarioID)

	slog.Info("runner: starting scenario run", "scenario_id", scenarioID)
	result := fn(runCtx)
	slog.Info("runner: finished scenario run", "scenario_id", scenarioID)
	return result
}

func (r *Runner) register(scenarioID string, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancels[scenarioID] = cancel
}

func (r *Runner) unregister(scenarioID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cancels, scenarioID)
}

// Cancel requests early termination of scenarioID's run, if one is active
// on this runner. Returns true if a matching run was found and cancelled.
func (r *Runner) Cancel(scenarioID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cancel, ok := r.cancels[scenarioID]
	if !ok {
		return false
	}
	cancel()
	return true
}

// Health reports current concurrency utilization.
type Health struct {
	ActiveRuns    int
	MaxConcurrent int
}

// Health returns a snapshot of current utilization.
func (r *Runner) Health() Health {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Health{ActiveRuns: len(r.cancels), MaxConcurrent: cap(r.sem)}
}

// String renders a one-line summary, for log fields.
func (h Health) String() string {
	return fmt.Sprintf("%d/%d active", h.ActiveRuns, h.MaxConcurrent)
}
