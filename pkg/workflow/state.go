// Package workflow drives the controller state machine described in
// spec.md §4.7: state_check → manager → intel → action_selection →
// generator → critic, looping on refine, applying accepted injects, and
// suspending at interactive decision points.
package workflow

import (
	"fmt"
	"time"

	"github.com/finhavoc/scenarioforge/pkg/domain"
)

// NodeId identifies one node in the controller's dispatch graph.
type NodeId string

const (
	NodeStateCheck      NodeId = "state_check"
	NodeManager         NodeId = "manager"
	NodeIntel           NodeId = "intel"
	NodeActionSelection NodeId = "action_selection"
	NodeGenerator       NodeId = "generator"
	NodeCritic          NodeId = "critic"
	NodeStateUpdate     NodeId = "state_update"
	NodeDecisionPoint   NodeId = "decision_point"
	NodeEnd             NodeId = "end"
)

// State is the working memory threaded through every node of one
// generation run. It is mutated in place by exactly one node at a time
// (spec.md §5: single-threaded cooperative execution per run).
type State struct {
	ScenarioID          string
	ScenarioType        domain.ScenarioType
	Mode                domain.Mode
	MaxIterations       int
	Interactive         bool
	ComplianceStandards []string

	CurrentPhase  domain.Phase
	Injects       []domain.Inject
	Errors        []string
	Warnings      []string
	WorkflowLogs  []string
	UserDecisions []domain.Decision
	UserFeedback  string

	Iteration    int
	RefineCounts map[string]int
	TTPCursor    int
	DecidedPhase map[domain.Phase]bool

	Draft            *domain.Inject
	ValidationResult *domain.ValidationResult
	ManagerPlan      domain.ManagerPlan
	AvailableTTPs    []domain.TTP
	SelectedTTP      domain.TTP
	StateSnapshot    map[string]*domain.Entity
	PendingDecision  *domain.PendingDecision

	PriorOverallScores []float64

	StartTime time.Time
}

// NewState initializes a fresh run's working memory.
func NewState(scenarioID string, scenarioType domain.ScenarioType, mode domain.Mode, maxIterations int, interactive bool, complianceStandards []string) *State {
	return &State{
		ScenarioID:          scenarioID,
		ScenarioType:        scenarioType,
		Mode:                mode,
		MaxIterations:       maxIterations,
		Interactive:         interactive,
		ComplianceStandards: complianceStandards,
		CurrentPhase:        domain.PhaseNormalOperation,
		RefineCounts:        make(map[string]int),
		DecidedPhase:        make(map[domain.Phase]bool),
		StartTime:           time.Now(),
	}
}

// log appends a one-line trace entry to the in-memory workflow log,
// independent of the forensic audit trace (spec.md §4.7).
func (s *State) log(format string, args ...any) {
	s.WorkflowLogs = append(s.WorkflowLogs, fmt.Sprintf(format, args...))
}

// nextInjectID derives the next sequential inject id.
func (s *State) nextInjectID() string {
	return fmt.Sprintf("INJ-%03d", len(s.Injects)+s.refinesIssuedSoFar()+1)
}

// refinesIssuedSoFar counts refine attempts across all inject ids, used
// only to keep generated inject ids from colliding across refine cycles
// that never produce an accepted inject.
func (s *State) refinesIssuedSoFar() int {
	total := 0
	for _, c := range s.RefineCounts {
		total += c
	}
	return total
}

// maxAcceptedOffset returns the largest time_offset (in seconds) among
// accepted injects, or 0 if none have been accepted yet.
func (s *State) maxAcceptedOffset() int {
	max := 0
	for _, inj := range s.Injects {
		if secs, ok := domain.ParseTimeOffset(inj.TimeOffset); ok && secs > max {
			max = secs
		}
	}
	return max
}

// acceptedTechniques lists the MITRE ids of every accepted inject, used
// by the Critic's causal plausibility check.
func (s *State) acceptedTechniques() []string {
	techniques := make([]string, 0, len(s.Injects))
	for _, inj := range s.Injects {
		if inj.TechnicalMetadata.MITREID != "" {
			techniques = append(techniques, inj.TechnicalMetadata.MITREID)
		}
	}
	return techniques
}

// priorInjectsSummary renders a compact textual summary of accepted
// injects so far, for the Manager's planning prompt.
func (s *State) priorInjectsSummary() string {
	if len(s.Injects) == 0 {
		return ""
	}
	last := s.Injects[len(s.Injects)-1]
	return fmt.Sprintf("%d injects accepted so far; most recent: %s (%s)", len(s.Injects), last.InjectID, last.Content)
}

// ToResult projects State into the public generate_scenario response
// shape (spec.md §6).
func (s *State) ToResult() Result {
	return Result{
		ScenarioID:    s.ScenarioID,
		Injects:       append([]domain.Inject(nil), s.Injects...),
		Errors:        append([]string(nil), s.Errors...),
		Warnings:      append([]string(nil), s.Warnings...),
		SystemState:   s.StateSnapshot,
		WorkflowLogs:  append([]string(nil), s.WorkflowLogs...),
		UserDecisions: append([]domain.Decision(nil), s.UserDecisions...),
	}
}

// Result is the public shape returned by generate_scenario.
type Result struct {
	ScenarioID    string
	Injects       []domain.Inject
	Errors        []string
	Warnings      []string
	SystemState   map[string]*domain.Entity
	WorkflowLogs  []string
	UserDecisions []domain.Decision
}
