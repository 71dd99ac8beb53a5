package workflow

import "github.com/finhavoc/scenarioforge/pkg/domain"

// decisionOptions returns the pre-computed branching options offered at a
// decision point for the given phase. Options are scripted per phase
// rather than per scenario type — the same incident-response choices
// (contain, monitor, escalate) apply across crisis archetypes; only the
// assets they touch vary with the scenario's own state snapshot.
func decisionOptions(phase domain.Phase) []domain.DecisionOption {
	switch phase {
	case domain.PhaseEscalationCrisis:
		return []domain.DecisionOption{
			{
				ChoiceID: "isolate_affected",
				Label:    "Isolate affected systems from the network",
				Impact:   map[string]domain.EntityStatus{"*affected*": domain.StatusOffline},
			},
			{
				ChoiceID: "monitor_only",
				Label:    "Continue monitoring without isolating",
				Impact:   map[string]domain.EntityStatus{},
			},
		}
	case domain.PhaseContainment:
		return []domain.DecisionOption{
			{
				ChoiceID: "rotate_credentials",
				Label:    "Force credential rotation across affected assets",
				Impact:   map[string]domain.EntityStatus{"*affected*": domain.StatusSuspicious},
			},
			{
				ChoiceID: "restore_from_backup",
				Label:    "Begin restoration from clean backups",
				Impact:   map[string]domain.EntityStatus{"*affected*": domain.StatusOnline},
			},
		}
	default:
		return []domain.DecisionOption{
			{
				ChoiceID: "acknowledge",
				Label:    "Acknowledge and continue monitoring",
				Impact:   map[string]domain.EntityStatus{},
			},
			{
				ChoiceID: "escalate_early",
				Label:    "Escalate the response team's involvement now",
				Impact:   map[string]domain.EntityStatus{},
			},
		}
	}
}

// optionByChoiceID looks up one of the pre-computed options by id.
func optionByChoiceID(options []domain.DecisionOption, choiceID string) (domain.DecisionOption, bool) {
	for _, o := range options {
		if o.ChoiceID == choiceID {
			return o, true
		}
	}
	return domain.DecisionOption{}, false
}

// affectedAssetsOf collects the affected asset ids named by the most
// recent accepted inject, used to resolve the "*affected*" wildcard
// impact key scripted decisions use instead of naming assets directly
// (the actual asset set varies by scenario run).
func affectedAssetsOf(s *State) []string {
	if len(s.Injects) == 0 {
		return nil
	}
	return s.Injects[len(s.Injects)-1].TechnicalMetadata.AffectedAssets
}
