// Package engine is the public API of the core (spec.md §6): the single
// surface a CLI, HTTP handler, or UI backend calls to drive scenario
// generation. It owns no agent logic itself — it sequences the registry
// and the workflow controller behind generate_scenario, supply_decision,
// list_scenarios, get_scenario, and get_scenario_logs.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finhavoc/scenarioforge/pkg/domain"
	"github.com/finhavoc/scenarioforge/pkg/experiment"
	"github.com/finhavoc/scenarioforge/pkg/registry"
	"github.com/finhavoc/scenarioforge/pkg/runner"
	"github.com/finhavoc/scenarioforge/pkg/workflow"
)

// Controller is the narrow interface Engine drives the node graph through.
type Controller interface {
	RunUntilDecision(ctx context.Context, s *workflow.State) *workflow.State
	ResumeAfterDecision(ctx context.Context, s *workflow.State, choiceID string) *workflow.State
}

// Engine is the public API of the core.
type Engine struct {
	controller Controller
	registry   *registry.Registry
	runner     *runner.Runner

	defaultMaxIterations       int
	defaultComplianceStandards []string
}

// New builds an Engine. defaultComplianceStandards is used whenever a
// caller of GenerateScenario doesn't supply its own.
func New(controller Controller, reg *registry.Registry, rnr *runner.Runner, defaultMaxIterations int, defaultComplianceStandards []string) *Engine {
	return &Engine{
		controller:                 controller,
		registry:                   reg,
		runner:                     rnr,
		defaultMaxIterations:       defaultMaxIterations,
		defaultComplianceStandards: defaultComplianceStandards,
	}
}

// GenerateScenario starts a new run to completion or to its first
// suspended decision point (spec.md §6). A zero or negative maxIterations
// and a nil complianceStandards fall back to the engine's defaults.
func (e *Engine) GenerateScenario(ctx context.Context, scenarioType domain.ScenarioType, scenarioID string, maxIterations int, mode domain.Mode, interactive bool, complianceStandards []string) (workflow.Result, error) {
	if !scenarioType.IsValid() {
		return workflow.Result{}, fmt.Errorf("engine: invalid scenario_type %q", scenarioType)
	}
	if scenarioID == "" {
		scenarioID = uuid.NewString()
	}
	if maxIterations <= 0 {
		maxIterations = e.defaultMaxIterations
	}
	if len(complianceStandards) == 0 {
		complianceStandards = e.defaultComplianceStandards
	}
	if mode == "" {
		mode = domain.ModeThesis
	}

	state := workflow.NewState(scenarioID, scenarioType, mode, maxIterations, interactive, complianceStandards)
	e.registry.Register(state)

	result := runner.Run(e.runner, ctx, scenarioID, func(runCtx context.Context) *workflow.State {
		return e.controller.RunUntilDecision(runCtx, state)
	})
	return e.settle(ctx, scenarioID, state, result)
}

// SupplyDecision resumes a suspended interactive run with the caller's
// choice_id (spec.md §6).
func (e *Engine) SupplyDecision(ctx context.Context, scenarioID, choiceID string) (workflow.Result, error) {
	state, err := e.registry.TakePending(scenarioID)
	if err != nil {
		return workflow.Result{}, err
	}

	result := runner.Run(e.runner, ctx, scenarioID, func(runCtx context.Context) *workflow.State {
		return e.controller.ResumeAfterDecision(runCtx, state, choiceID)
	})
	return e.settle(ctx, scenarioID, state, result)
}

// settle records the outcome of a run in the registry and returns its
// public projection. result is nil only when ctx was cancelled before a
// concurrency slot became available.
func (e *Engine) settle(ctx context.Context, scenarioID string, state *workflow.State, result *workflow.State) (workflow.Result, error) {
	if result == nil {
		err := ctx.Err()
		if err == nil {
			err = fmt.Errorf("engine: run cancelled before it could start")
		}
		e.registry.Fail(scenarioID, state, err)
		return workflow.Result{}, err
	}
	if result.PendingDecision != nil {
		e.registry.Suspend(result)
	} else {
		e.registry.Complete(result)
	}
	return result.ToResult(), nil
}

// ListScenarios returns a summary of every tracked run (spec.md §6).
func (e *Engine) ListScenarios() []domain.ScenarioSummary {
	return e.registry.List()
}

// GetScenario returns the current (possibly in-progress) projection of a
// tracked run (spec.md §6).
func (e *Engine) GetScenario(scenarioID string) (workflow.Result, error) {
	entry, err := e.registry.Get(scenarioID)
	if err != nil {
		return workflow.Result{}, err
	}
	return entry.State.ToResult(), nil
}

// GetScenarioLogs returns the in-memory workflow trace for a tracked run
// (spec.md §6).
func (e *Engine) GetScenarioLogs(scenarioID string) ([]string, error) {
	entry, err := e.registry.Get(scenarioID)
	if err != nil {
		return nil, err
	}
	return entry.State.WorkflowLogs, nil
}

// CancelScenario requests early termination of a run in flight.
func (e *Engine) CancelScenario(scenarioID string) bool {
	return e.runner.Cancel(scenarioID)
}

// CompareModes runs the same scenario_type back to back under legacy mode
// (no validation) and thesis mode (full Critic validation) and measures the
// A/B effect named as component (d) of the core in spec.md §1. Both runs
// use the caller's maxIterations/complianceStandards and a fresh
// scenario_id each, so the LLM backend must be deterministic (stubbed or
// seeded) for the comparison to isolate the Critic's effect rather than
// generation drift.
func (e *Engine) CompareModes(ctx context.Context, scenarioType domain.ScenarioType, maxIterations int, complianceStandards []string) (experiment.Comparison, error) {
	legacy, err := e.GenerateScenario(ctx, scenarioType, "", maxIterations, domain.ModeLegacy, false, complianceStandards)
	if err != nil {
		return experiment.Comparison{}, fmt.Errorf("engine: legacy run: %w", err)
	}
	thesis, err := e.GenerateScenario(ctx, scenarioType, "", maxIterations, domain.ModeThesis, false, complianceStandards)
	if err != nil {
		return experiment.Comparison{}, fmt.Errorf("engine: thesis run: %w", err)
	}
	return experiment.Compare(legacy, thesis), nil
}
