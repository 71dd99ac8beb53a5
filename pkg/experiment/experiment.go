// Package experiment implements the A/B harnessing named as component (d)
// of the core in spec.md §1: quantifying what the symbolic Critic layer
// prevents by comparing a legacy-mode run (no validation) against a
// thesis-mode run (full validation) of the same scenario.
package experiment

import "github.com/finhavoc/scenarioforge/pkg/workflow"

// Hallucinations returns the inject ids in result whose technical_metadata
// names at least one asset id absent from the run's final system state —
// the spec's definition of a hallucination (§ GLOSSARY).
func Hallucinations(result workflow.Result) []string {
	var ids []string
	for _, inj := range result.Injects {
		for _, assetID := range inj.TechnicalMetadata.AffectedAssets {
			if _, ok := result.SystemState[assetID]; !ok {
				ids = append(ids, inj.InjectID)
				break
			}
		}
	}
	return ids
}

// Comparison is the paired-run A/B measurement (spec.md Scenario E5).
type Comparison struct {
	LegacyHallucinations    int
	ThesisHallucinations    int
	HallucinationsPrevented int
	LegacyHallucinatedIDs   []string
	ThesisHallucinatedIDs   []string
}

// Compare runs the hallucination count on each paired result and derives
// hallucinations_prevented = max(0, legacy - thesis) (spec.md:205). legacy
// and thesis must come from identical seed state and identical LLM
// responses, one run with mode=legacy and one with mode=thesis, for the
// comparison to be meaningful.
func Compare(legacy, thesis workflow.Result) Comparison {
	legacyIDs := Hallucinations(legacy)
	thesisIDs := Hallucinations(thesis)

	prevented := len(legacyIDs) - len(thesisIDs)
	if prevented < 0 {
		prevented = 0
	}

	return Comparison{
		LegacyHallucinations:    len(legacyIDs),
		ThesisHallucinations:    len(thesisIDs),
		HallucinationsPrevented: prevented,
		LegacyHallucinatedIDs:   legacyIDs,
		ThesisHallucinatedIDs:   thesisIDs,
	}
}
