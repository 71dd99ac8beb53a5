package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finhavoc/scenarioforge/pkg/domain"
	"github.com/finhavoc/scenarioforge/pkg/workflow"
)

func inject(id string, assets ...string) domain.Inject {
	return domain.Inject{
		InjectID: id,
		TechnicalMetadata: domain.TechnicalMetadata{
			AffectedAssets: assets,
		},
	}
}

func TestHallucinations_FlagsAssetsAbsentFromSystemState(t *testing.T) {
	result := workflow.Result{
		Injects: []domain.Inject{
			inject("INJ-001", "SRV-APP-001"),
			inject("INJ-002", "SRV-GHOST-999"),
		},
		SystemState: map[string]*domain.Entity{
			"SRV-APP-001": {ID: "SRV-APP-001"},
		},
	}
	assert.Equal(t, []string{"INJ-002"}, Hallucinations(result))
}

func TestHallucinations_EmptyWhenAllAssetsKnown(t *testing.T) {
	result := workflow.Result{
		Injects: []domain.Inject{inject("INJ-001", "SRV-APP-001")},
		SystemState: map[string]*domain.Entity{
			"SRV-APP-001": {ID: "SRV-APP-001"},
		},
	}
	assert.Empty(t, Hallucinations(result))
}

// TestCompare_ScenarioE5PairedRun models spec.md Scenario E5: a legacy-mode
// run accepts a hallucinated draft unconditionally, a thesis-mode run on
// the same seed state rejects it before it reaches the result, and the
// comparison reports a positive hallucinations_prevented.
func TestCompare_ScenarioE5PairedRun(t *testing.T) {
	systemState := map[string]*domain.Entity{
		"SRV-APP-001": {ID: "SRV-APP-001"},
	}

	legacy := workflow.Result{
		Injects: []domain.Inject{
			inject("INJ-001", "SRV-APP-001"),
			inject("INJ-002", "SRV-GHOST-999"), // legacy mode never validated this
		},
		SystemState: systemState,
	}
	thesis := workflow.Result{
		Injects: []domain.Inject{
			inject("INJ-001", "SRV-APP-001"), // thesis mode rejected INJ-002 before it landed here
		},
		SystemState: systemState,
	}

	cmp := Compare(legacy, thesis)
	assert.Equal(t, 1, cmp.LegacyHallucinations)
	assert.Equal(t, 0, cmp.ThesisHallucinations)
	assert.Equal(t, 1, cmp.HallucinationsPrevented)
	assert.GreaterOrEqual(t, cmp.HallucinationsPrevented, 0)
	assert.Equal(t, []string{"INJ-002"}, cmp.LegacyHallucinatedIDs)
	assert.Empty(t, cmp.ThesisHallucinatedIDs)
}

func TestCompare_NeverNegative(t *testing.T) {
	systemState := map[string]*domain.Entity{"SRV-APP-001": {ID: "SRV-APP-001"}}
	legacy := workflow.Result{Injects: []domain.Inject{inject("INJ-001", "SRV-APP-001")}, SystemState: systemState}
	thesis := workflow.Result{Injects: []domain.Inject{inject("INJ-001", "SRV-GHOST-999")}, SystemState: systemState}

	cmp := Compare(legacy, thesis)
	assert.Equal(t, 0, cmp.HallucinationsPrevented)
}
