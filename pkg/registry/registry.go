// Package registry holds the in-memory table of generation runs behind the
// public API (spec.md §9): each scenario is either running, suspended at a
// decision point awaiting supply_decision, or finished. The controller
// itself is stateless between calls — all continuation state (iteration
// count, refine counters, TTP cursor, pending decision) lives here, keyed
// by scenario id.
package registry

import (
	"fmt"
	"sync"

	"github.com/finhavoc/scenarioforge/pkg/domain"
	"github.com/finhavoc/scenarioforge/pkg/workflow"
)

// Status is the lifecycle state of one registered run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSuspended Status = "suspended"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Entry is one tracked generation run.
type Entry struct {
	State  *workflow.State
	Status Status
	Err    error
}

// Registry is a concurrency-safe map of scenario_id to Entry. Safe for use
// by multiple concurrently executing runs (spec.md §5: independent runs
// execute in parallel, each single-threaded internally).
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register starts tracking a new running scenario.
func (r *Registry) Register(state *workflow.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[state.ScenarioID] = &Entry{State: state, Status: StatusRunning}
}

// Suspend marks a scenario as paused at a decision point. state.PendingDecision
// must already be set by the controller.
func (r *Registry) Suspend(state *workflow.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[state.ScenarioID] = &Entry{State: state, Status: StatusSuspended}
}

// Complete marks a scenario finished, recording its final state.
func (r *Registry) Complete(state *workflow.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[state.ScenarioID] = &Entry{State: state, Status: StatusCompleted}
}

// Fail marks a scenario as having terminated with an error.
func (r *Registry) Fail(scenarioID string, state *workflow.State, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[scenarioID] = &Entry{State: state, Status: StatusFailed, Err: err}
}

// ErrNotFound indicates no scenario is tracked under the given id.
var ErrNotFound = fmt.Errorf("scenario not found")

// Get returns the tracked entry for scenarioID.
func (r *Registry) Get(scenarioID string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[scenarioID]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// TakePending returns the full working memory of a suspended scenario and
// transitions it back to running, so a concurrent supply_decision call for
// the same scenario can't also take it. Returns ErrNotFound if the
// scenario isn't currently suspended.
func (r *Registry) TakePending(scenarioID string) (*workflow.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[scenarioID]
	if !ok || e.Status != StatusSuspended {
		return nil, ErrNotFound
	}
	e.Status = StatusRunning
	return e.State, nil
}

// List returns a summary of every tracked scenario.
func (r *Registry) List() []domain.ScenarioSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	summaries := make([]domain.ScenarioSummary, 0, len(r.entries))
	for _, e := range r.entries {
		summaries = append(summaries, summarizeState(e.State))
	}
	return summaries
}

func summarizeState(s *workflow.State) domain.ScenarioSummary {
	return domain.ScenarioSummary{
		ScenarioID:   s.ScenarioID,
		ScenarioType: s.ScenarioType,
		Phase:        s.CurrentPhase,
		InjectCount:  len(s.Injects),
		CreatedAt:    s.StartTime,
	}
}
