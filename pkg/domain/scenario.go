package domain

import "time"

// ScenarioType enumerates the supported crisis archetypes.
type ScenarioType string

const (
	ScenarioRansomwareDoubleExtortion   ScenarioType = "RANSOMWARE_DOUBLE_EXTORTION"
	ScenarioDDoSCriticalFunctions       ScenarioType = "DDOS_CRITICAL_FUNCTIONS"
	ScenarioSupplyChainCompromise       ScenarioType = "SUPPLY_CHAIN_COMPROMISE"
	ScenarioInsiderThreatDataManipulation ScenarioType = "INSIDER_THREAT_DATA_MANIPULATION"
)

// IsValid reports whether t is one of the recognized scenario types.
func (t ScenarioType) IsValid() bool {
	switch t {
	case ScenarioRansomwareDoubleExtortion, ScenarioDDoSCriticalFunctions,
		ScenarioSupplyChainCompromise, ScenarioInsiderThreatDataManipulation:
		return true
	default:
		return false
	}
}

// Mode switches the Critic between full symbolic validation and the
// unchecked A/B baseline.
type Mode string

const (
	ModeLegacy Mode = "legacy"
	ModeThesis Mode = "thesis"
)

// Scenario is the ordered timeline of injects produced by one generation run.
type Scenario struct {
	ScenarioID   string         `json:"scenario_id"`
	ScenarioType ScenarioType   `json:"scenario_type"`
	CurrentPhase Phase          `json:"current_phase"`
	Injects      []Inject       `json:"injects"`
	StartTime    time.Time      `json:"start_time"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ScenarioSummary is a lightweight projection of a Scenario for listing
// callers that don't need the full inject bodies.
type ScenarioSummary struct {
	ScenarioID  string       `json:"scenario_id"`
	ScenarioType ScenarioType `json:"scenario_type"`
	Phase       Phase        `json:"phase"`
	InjectCount int          `json:"inject_count"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Summarize projects a Scenario down to its ScenarioSummary.
func Summarize(s *Scenario) ScenarioSummary {
	return ScenarioSummary{
		ScenarioID:   s.ScenarioID,
		ScenarioType: s.ScenarioType,
		Phase:        s.CurrentPhase,
		InjectCount:  len(s.Injects),
		CreatedAt:    s.StartTime,
	}
}

// TTP is one candidate adversary technique returned by the intel provider.
type TTP struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Tactic      string `json:"tactic"`
	Description string `json:"description"`
}

// ManagerPlan is the ManagerAgent's structured storyline output.
type ManagerPlan struct {
	NextGoal        string   `json:"next_goal"`
	TargetPhase     Phase    `json:"target_phase"`
	Rationale       string   `json:"rationale"`
	SuggestedAssets []string `json:"suggested_assets"`
}

// Decision is one applied human-in-the-loop choice at a decision point.
type Decision struct {
	ChoiceID  string         `json:"choice_id"`
	Phase     Phase          `json:"phase"`
	Timestamp time.Time      `json:"timestamp"`
	Impact    map[string]any `json:"impact,omitempty"`
}

// DecisionOption is one of the pre-computed branches offered at a decision
// point; Impact describes the status/severity effects applied on selection.
type DecisionOption struct {
	ChoiceID    string                  `json:"choice_id"`
	Label       string                  `json:"label"`
	Impact      map[string]EntityStatus `json:"impact"`
}

// PendingDecision is the suspended state surfaced to an external caller
// when the controller reaches a decision point.
type PendingDecision struct {
	ScenarioID string            `json:"scenario_id"`
	Phase      Phase             `json:"phase"`
	Options    []DecisionOption  `json:"options"`
}
