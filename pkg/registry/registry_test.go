package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finhavoc/scenarioforge/pkg/domain"
	"github.com/finhavoc/scenarioforge/pkg/workflow"
)

func newTestStateFor(id string) *workflow.State {
	return workflow.NewState(id, domain.ScenarioRansomwareDoubleExtortion, domain.ModeThesis, 10, false, nil)
}

func TestRegister_TracksAsRunning(t *testing.T) {
	r := New()
	state := newTestStateFor("SCN-001")
	r.Register(state)

	entry, err := r.Get("SCN-001")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, entry.Status)
	assert.Same(t, state, entry.State)
}

func TestGet_UnknownScenarioReturnsErrNotFound(t *testing.T) {
	r := New()
	_, err := r.Get("SCN-MISSING")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSuspendAndTakePending_RoundTrips(t *testing.T) {
	r := New()
	state := newTestStateFor("SCN-001")
	state.PendingDecision = &domain.PendingDecision{ScenarioID: "SCN-001", Phase: domain.PhaseInitialIncident}

	r.Suspend(state)

	entry, err := r.Get("SCN-001")
	require.NoError(t, err)
	assert.Equal(t, StatusSuspended, entry.Status)

	got, err := r.TakePending("SCN-001")
	require.NoError(t, err)
	assert.Same(t, state, got)

	entry, err = r.Get("SCN-001")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, entry.Status)
}

func TestTakePending_NotSuspendedReturnsErrNotFound(t *testing.T) {
	r := New()
	r.Register(newTestStateFor("SCN-001"))

	_, err := r.TakePending("SCN-001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComplete_MarksFinished(t *testing.T) {
	r := New()
	state := newTestStateFor("SCN-001")
	r.Register(state)
	r.Complete(state)

	entry, err := r.Get("SCN-001")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, entry.Status)
}

func TestFail_RecordsError(t *testing.T) {
	r := New()
	state := newTestStateFor("SCN-001")
	r.Register(state)
	r.Fail("SCN-001", state, assert.AnError)

	entry, err := r.Get("SCN-001")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, entry.Status)
	assert.ErrorIs(t, entry.Err, assert.AnError)
}

func TestList_ReturnsSummaryForEveryEntry(t *testing.T) {
	r := New()
	r.Register(newTestStateFor("SCN-001"))
	r.Register(newTestStateFor("SCN-002"))

	summaries := r.List()
	assert.Len(t, summaries, 2)
}

func TestRegistry_ConcurrentAccessIsSafe(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := "SCN-CONCURRENT"
			r.Register(newTestStateFor(id))
			_, _ = r.Get(id)
			_ = r.List()
		}(i)
	}
	wg.Wait()
}
