package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finhavoc/scenarioforge/pkg/domain"
)

func TestDecisionOptions_EscalationCrisisOffersIsolateAndMonitor(t *testing.T) {
	options := decisionOptions(domain.PhaseEscalationCrisis)

	assert.Len(t, options, 2)
	opt, ok := optionByChoiceID(options, "isolate_affected")
	assert.True(t, ok)
	assert.Equal(t, domain.StatusOffline, opt.Impact["*affected*"])
}

func TestDecisionOptions_ContainmentOffersRotateAndRestore(t *testing.T) {
	options := decisionOptions(domain.PhaseContainment)

	_, ok := optionByChoiceID(options, "rotate_credentials")
	assert.True(t, ok)
	_, ok = optionByChoiceID(options, "restore_from_backup")
	assert.True(t, ok)
}

func TestDecisionOptions_OtherPhasesOfferAcknowledgeAndEscalate(t *testing.T) {
	options := decisionOptions(domain.PhaseInitialIncident)

	_, ok := optionByChoiceID(options, "acknowledge")
	assert.True(t, ok)
	_, ok = optionByChoiceID(options, "escalate_early")
	assert.True(t, ok)
}

func TestOptionByChoiceID_UnknownReturnsFalse(t *testing.T) {
	options := decisionOptions(domain.PhaseEscalationCrisis)
	_, ok := optionByChoiceID(options, "does_not_exist")
	assert.False(t, ok)
}

func TestAffectedAssetsOf_ReadsMostRecentInject(t *testing.T) {
	s := newTestState()
	s.Injects = []domain.Inject{
		{InjectID: "INJ-001", TechnicalMetadata: domain.TechnicalMetadata{AffectedAssets: []string{"SRV-OLD-001"}}},
		{InjectID: "INJ-002", TechnicalMetadata: domain.TechnicalMetadata{AffectedAssets: []string{"SRV-APP-001", "SRV-DB-001"}}},
	}

	assert.Equal(t, []string{"SRV-APP-001", "SRV-DB-001"}, affectedAssetsOf(s))
}

func TestAffectedAssetsOf_NoInjectsReturnsNil(t *testing.T) {
	s := newTestState()
	assert.Nil(t, affectedAssetsOf(s))
}
