package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finhavoc/scenarioforge/pkg/domain"
	"github.com/finhavoc/scenarioforge/pkg/registry"
	"github.com/finhavoc/scenarioforge/pkg/runner"
	"github.com/finhavoc/scenarioforge/pkg/workflow"
)

// stubController drives a deterministic node sequence independent of the
// real controller, so Engine's orchestration can be tested in isolation.
type stubController struct {
	runBehavior    func(s *workflow.State)
	resumeBehavior func(s *workflow.State, choiceID string)
}

func (c *stubController) RunUntilDecision(_ context.Context, s *workflow.State) *workflow.State {
	if c.runBehavior != nil {
		c.runBehavior(s)
	}
	return s
}

func (c *stubController) ResumeAfterDecision(_ context.Context, s *workflow.State, choiceID string) *workflow.State {
	if c.resumeBehavior != nil {
		c.resumeBehavior(s, choiceID)
	}
	return s
}

func newEngine(ctrl Controller) *Engine {
	return New(ctrl, registry.New(), runner.New(4), 10, []string{"DORA"})
}

func TestGenerateScenario_RejectsUnknownScenarioType(t *testing.T) {
	e := newEngine(&stubController{})

	_, err := e.GenerateScenario(context.Background(), domain.ScenarioType("NOT_A_TYPE"), "", 0, domain.ModeThesis, false, nil)

	assert.Error(t, err)
}

func TestGenerateScenario_AssignsIDAndDefaultsWhenOmitted(t *testing.T) {
	var captured *workflow.State
	e := newEngine(&stubController{runBehavior: func(s *workflow.State) { captured = s }})

	result, err := e.GenerateScenario(context.Background(), domain.ScenarioRansomwareDoubleExtortion, "", 0, "", false, nil)

	require.NoError(t, err)
	assert.NotEmpty(t, result.ScenarioID)
	require.NotNil(t, captured)
	assert.Equal(t, 10, captured.MaxIterations)
	assert.Equal(t, domain.ModeThesis, captured.Mode)
	assert.Equal(t, []string{"DORA"}, captured.ComplianceStandards)
}

func TestGenerateScenario_CompletesAndIsListable(t *testing.T) {
	ctrl := &stubController{runBehavior: func(s *workflow.State) {
		s.Injects = append(s.Injects, domain.Inject{InjectID: "INJ-001"})
	}}
	e := newEngine(ctrl)

	result, err := e.GenerateScenario(context.Background(), domain.ScenarioRansomwareDoubleExtortion, "SCN-100", 5, domain.ModeThesis, false, nil)

	require.NoError(t, err)
	assert.Len(t, result.Injects, 1)

	summaries := e.ListScenarios()
	require.Len(t, summaries, 1)
	assert.Equal(t, "SCN-100", summaries[0].ScenarioID)

	fetched, err := e.GetScenario("SCN-100")
	require.NoError(t, err)
	assert.Len(t, fetched.Injects, 1)
}

func TestGenerateScenario_SuspendsAtDecisionPoint(t *testing.T) {
	ctrl := &stubController{runBehavior: func(s *workflow.State) {
		s.PendingDecision = &domain.PendingDecision{ScenarioID: s.ScenarioID, Phase: domain.PhaseEscalationCrisis}
	}}
	e := newEngine(ctrl)

	_, err := e.GenerateScenario(context.Background(), domain.ScenarioRansomwareDoubleExtortion, "SCN-200", 5, domain.ModeThesis, true, nil)
	require.NoError(t, err)

	entry, err := e.registry.Get("SCN-200")
	require.NoError(t, err)
	assert.Equal(t, registry.StatusSuspended, entry.Status)
}

func TestSupplyDecision_ResumesAndCompletes(t *testing.T) {
	ctrl := &stubController{
		runBehavior: func(s *workflow.State) {
			s.PendingDecision = &domain.PendingDecision{ScenarioID: s.ScenarioID, Phase: domain.PhaseEscalationCrisis}
		},
		resumeBehavior: func(s *workflow.State, choiceID string) {
			s.PendingDecision = nil
			s.UserDecisions = append(s.UserDecisions, domain.Decision{ChoiceID: choiceID})
		},
	}
	e := newEngine(ctrl)

	_, err := e.GenerateScenario(context.Background(), domain.ScenarioRansomwareDoubleExtortion, "SCN-300", 5, domain.ModeThesis, true, nil)
	require.NoError(t, err)

	result, err := e.SupplyDecision(context.Background(), "SCN-300", "isolate_affected")
	require.NoError(t, err)
	require.Len(t, result.UserDecisions, 1)
	assert.Equal(t, "isolate_affected", result.UserDecisions[0].ChoiceID)

	entry, err := e.registry.Get("SCN-300")
	require.NoError(t, err)
	assert.Equal(t, registry.StatusCompleted, entry.Status)
}

func TestSupplyDecision_UnknownScenarioReturnsError(t *testing.T) {
	e := newEngine(&stubController{})

	_, err := e.SupplyDecision(context.Background(), "does-not-exist", "choice")

	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestGetScenarioLogs_ReturnsTrackedLogs(t *testing.T) {
	ctrl := &stubController{runBehavior: func(s *workflow.State) {
		s.WorkflowLogs = append(s.WorkflowLogs, "did a thing")
	}}
	e := newEngine(ctrl)

	_, err := e.GenerateScenario(context.Background(), domain.ScenarioRansomwareDoubleExtortion, "SCN-400", 5, domain.ModeThesis, false, nil)
	require.NoError(t, err)

	logs, err := e.GetScenarioLogs("SCN-400")
	require.NoError(t, err)
	assert.Contains(t, logs, "did a thing")
}

func TestCancelScenario_DelegatesToRunner(t *testing.T) {
	e := newEngine(&stubController{})
	assert.False(t, e.CancelScenario("no-such-run"))
}
