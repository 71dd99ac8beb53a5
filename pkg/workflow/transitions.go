package workflow

import "github.com/finhavoc/scenarioforge/pkg/domain"

// MaxRefineAttempts bounds how many times a single inject id may be sent
// back to the generator before being force-accepted with a warning.
const MaxRefineAttempts = 2

// edge names the outcome of a conditional transition.
type edge string

const (
	edgeRefine   edge = "refine"
	edgeUpdate   edge = "update"
	edgeContinue edge = "state_check"
	edgeDecision edge = "decision_point"
	edgeEnd      edge = "end"
)

// shouldRefine decides, after the critic node, whether to send the draft
// back to the generator or proceed to state_update (spec.md §4.7).
func shouldRefine(s *State) edge {
	if s.ValidationResult == nil {
		return edgeUpdate
	}
	if s.ValidationResult.IsValid {
		return edgeUpdate
	}
	injectID := ""
	if s.Draft != nil {
		injectID = s.Draft.InjectID
	}
	if s.RefineCounts[injectID] < MaxRefineAttempts {
		s.RefineCounts[injectID]++
		return edgeRefine
	}
	s.ValidationResult.Warnings = append(s.ValidationResult.Warnings, "accepted after 2 refine attempts")
	return edgeUpdate
}

// shouldContinue evaluates the six ordered termination rules after
// state_update, in non-interactive mode.
func shouldContinue(s *State) edge {
	if len(s.Injects) >= s.MaxIterations {
		return edgeEnd
	}
	if s.Iteration >= s.MaxIterations*2 {
		return edgeEnd
	}
	if len(s.Errors) > 20 {
		return edgeEnd
	}
	if s.CurrentPhase == domain.PhaseRecovery && len(s.Injects) >= maxInt(3, int(0.8*float64(s.MaxIterations))) {
		return edgeEnd
	}
	if len(s.WorkflowLogs) > s.MaxIterations*15 {
		return edgeEnd
	}
	return edgeContinue
}

// shouldAskDecision decides whether to suspend at a decision point: after
// acceptance of injects at positions {2,4,6,...,20}, or on entering
// ESCALATION_CRISIS/CONTAINMENT for the first time.
func shouldAskDecision(s *State) bool {
	if !s.Interactive {
		return false
	}
	n := len(s.Injects)
	if n > 0 && n <= 20 && n%2 == 0 {
		return true
	}
	if (s.CurrentPhase == domain.PhaseEscalationCrisis || s.CurrentPhase == domain.PhaseContainment) && !s.DecidedPhase[s.CurrentPhase] {
		return true
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
