package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finhavoc/scenarioforge/pkg/domain"
)

func newTestState() *State {
	return NewState("SCN-001", domain.ScenarioRansomwareDoubleExtortion, domain.ModeThesis, 10, false, nil)
}

func TestShouldRefine_NilResultProceedsToUpdate(t *testing.T) {
	s := newTestState()
	assert.Equal(t, edgeUpdate, shouldRefine(s))
}

func TestShouldRefine_ValidResultProceedsToUpdate(t *testing.T) {
	s := newTestState()
	s.Draft = &domain.Inject{InjectID: "INJ-001"}
	s.ValidationResult = &domain.ValidationResult{IsValid: true}
	assert.Equal(t, edgeUpdate, shouldRefine(s))
}

func TestShouldRefine_InvalidResultRefinesUpToMax(t *testing.T) {
	s := newTestState()
	s.Draft = &domain.Inject{InjectID: "INJ-001"}
	s.ValidationResult = &domain.ValidationResult{IsValid: false}

	assert.Equal(t, edgeRefine, shouldRefine(s))
	assert.Equal(t, 1, s.RefineCounts["INJ-001"])

	s.ValidationResult = &domain.ValidationResult{IsValid: false}
	assert.Equal(t, edgeRefine, shouldRefine(s))
	assert.Equal(t, 2, s.RefineCounts["INJ-001"])
}

func TestShouldRefine_ForceAcceptsAfterMaxRefineAttempts(t *testing.T) {
	s := newTestState()
	s.Draft = &domain.Inject{InjectID: "INJ-001"}
	s.RefineCounts["INJ-001"] = MaxRefineAttempts
	s.ValidationResult = &domain.ValidationResult{IsValid: false}

	edge := shouldRefine(s)

	assert.Equal(t, edgeUpdate, edge)
	assert.Contains(t, s.ValidationResult.Warnings, "accepted after 2 refine attempts")
}

func TestShouldContinue_EndsWhenInjectCountReachesMax(t *testing.T) {
	s := newTestState()
	s.MaxIterations = 3
	s.Injects = []domain.Inject{{}, {}, {}}
	assert.Equal(t, edgeEnd, shouldContinue(s))
}

func TestShouldContinue_EndsWhenIterationCapReached(t *testing.T) {
	s := newTestState()
	s.MaxIterations = 5
	s.Iteration = 10
	assert.Equal(t, edgeEnd, shouldContinue(s))
}

func TestShouldContinue_EndsWhenErrorBudgetExceeded(t *testing.T) {
	s := newTestState()
	s.MaxIterations = 100
	for i := 0; i < 21; i++ {
		s.Errors = append(s.Errors, "err")
	}
	assert.Equal(t, edgeEnd, shouldContinue(s))
}

func TestShouldContinue_EndsOnRecoveryWithEnoughInjects(t *testing.T) {
	s := newTestState()
	s.MaxIterations = 10
	s.CurrentPhase = domain.PhaseRecovery
	s.Injects = make([]domain.Inject, 8)
	assert.Equal(t, edgeEnd, shouldContinue(s))
}

func TestShouldContinue_EndsWhenWorkflowLogBudgetExceeded(t *testing.T) {
	s := newTestState()
	s.MaxIterations = 2
	for i := 0; i < 31; i++ {
		s.WorkflowLogs = append(s.WorkflowLogs, "log")
	}
	assert.Equal(t, edgeEnd, shouldContinue(s))
}

func TestShouldContinue_ContinuesOtherwise(t *testing.T) {
	s := newTestState()
	s.MaxIterations = 20
	s.CurrentPhase = domain.PhaseInitialIncident
	s.Injects = make([]domain.Inject, 2)
	assert.Equal(t, edgeContinue, shouldContinue(s))
}

func TestShouldAskDecision_NonInteractiveNeverAsks(t *testing.T) {
	s := newTestState()
	s.Interactive = false
	s.Injects = make([]domain.Inject, 2)
	assert.False(t, shouldAskDecision(s))
}

func TestShouldAskDecision_AsksAtEvenPositionsUpTo20(t *testing.T) {
	s := newTestState()
	s.Interactive = true
	s.CurrentPhase = domain.PhaseInitialIncident

	s.Injects = make([]domain.Inject, 2)
	assert.True(t, shouldAskDecision(s))

	s.Injects = make([]domain.Inject, 3)
	assert.False(t, shouldAskDecision(s))

	s.Injects = make([]domain.Inject, 20)
	assert.True(t, shouldAskDecision(s))

	s.Injects = make([]domain.Inject, 22)
	assert.False(t, shouldAskDecision(s))
}

func TestShouldAskDecision_AsksOnFirstEntryIntoEscalationOrContainment(t *testing.T) {
	s := newTestState()
	s.Interactive = true
	s.CurrentPhase = domain.PhaseEscalationCrisis
	s.Injects = make([]domain.Inject, 1)

	assert.True(t, shouldAskDecision(s))

	s.DecidedPhase[domain.PhaseEscalationCrisis] = true
	assert.False(t, shouldAskDecision(s))
}
