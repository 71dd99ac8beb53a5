// Package manager implements the ManagerAgent: the storyline planner that
// proposes the next narrative goal and target phase for a scenario before
// a concrete inject is drafted.
package manager

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/finhavoc/scenarioforge/pkg/domain"
	"github.com/finhavoc/scenarioforge/pkg/jsonutil"
)

// LLM is the narrow interface Manager consumes.
type LLM interface {
	Invoke(ctx context.Context, prompt, modelHint string) (string, error)
}

// Manager produces a ManagerPlan for the controller's action_selection node.
type Manager struct {
	llm LLM
}

// New builds a Manager over the given LLM client.
func New(llm LLM) *Manager {
	return &Manager{llm: llm}
}

// Input bundles everything ManagerAgent consumes per spec.md §4.3.
type Input struct {
	ScenarioType        domain.ScenarioType
	CurrentPhase        domain.Phase
	StateSnapshot        map[string]*domain.Entity
	PriorInjectsSummary string
}

// defaultPlan is the minimal storyline used when the LLM response cannot
// be parsed: stay in the current phase and let the generator continue it.
func defaultPlan(phase domain.Phase) domain.ManagerPlan {
	return domain.ManagerPlan{
		NextGoal:    "continue the current phase's narrative",
		TargetPhase: phase,
		Rationale:   "default plan: manager response could not be parsed",
	}
}

// Plan calls the LLM for a structured storyline and falls back to a
// minimal default plan (with a warning) if the response can't be parsed.
func (m *Manager) Plan(ctx context.Context, in Input) (domain.ManagerPlan, string) {
	prompt := buildPrompt(in)

	raw, err := m.llm.Invoke(ctx, prompt, "")
	if err != nil {
		slog.Warn("manager: llm invoke failed, using default plan", "error", err)
		return defaultPlan(in.CurrentPhase), fmt.Sprintf("manager llm unavailable: %v", err)
	}

	var plan domain.ManagerPlan
	if err := jsonutil.Decode(raw, &plan); err != nil {
		slog.Warn("manager: could not parse llm response, using default plan", "error", err)
		return defaultPlan(in.CurrentPhase), fmt.Sprintf("manager response unparseable: %v", err)
	}
	if plan.TargetPhase == "" {
		plan.TargetPhase = in.CurrentPhase
	}
	return plan, ""
}

func buildPrompt(in Input) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are planning the next step of a %s crisis exercise.\n", in.ScenarioType)
	fmt.Fprintf(&sb, "Current phase: %s\n", in.CurrentPhase)
	fmt.Fprintf(&sb, "Assets currently tracked: %d\n", len(in.StateSnapshot))
	if in.PriorInjectsSummary != "" {
		fmt.Fprintf(&sb, "Prior injects summary: %s\n", in.PriorInjectsSummary)
	}
	sb.WriteString("Respond with JSON only, matching exactly this shape:\n")
	sb.WriteString(`{"next_goal":"...","target_phase":"...","rationale":"...","suggested_assets":["..."]}`)
	sb.WriteString("\nDo not invent asset ids not already tracked.\n")
	return sb.String()
}
