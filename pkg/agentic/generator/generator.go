// Package generator implements the GeneratorAgent: drafts one candidate
// Inject per controller iteration, repairing common malformed LLM output
// and falling back to a stub draft when the response is unusable (the
// Critic will reject the stub on the next node).
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/finhavoc/scenarioforge/pkg/domain"
	"github.com/finhavoc/scenarioforge/pkg/jsonutil"
)

// LLM is the narrow interface Generator consumes.
type LLM interface {
	Invoke(ctx context.Context, prompt, modelHint string) (string, error)
}

// Generator drafts candidate injects for the critic to validate.
type Generator struct {
	llm LLM
}

// New builds a Generator over the given LLM client.
func New(llm LLM) *Generator {
	return &Generator{llm: llm}
}

// Input bundles everything GeneratorAgent consumes per spec.md §4.4.
type Input struct {
	ScenarioType       domain.ScenarioType
	Phase              domain.Phase
	InjectID           string
	TimeOffset         string
	ManagerPlan        domain.ManagerPlan
	SelectedTTP        domain.TTP
	StateSnapshot      map[string]*domain.Entity
	PriorInjects       []domain.Inject
	ValidationFeedback string
	UserFeedback       string
}

// rawInject mirrors domain.Inject but with looser typing so malformed LLM
// output (wrong types, missing fields) decodes without failing outright.
type rawInject struct {
	InjectID          string                   `json:"inject_id"`
	TimeOffset        string                   `json:"time_offset"`
	Phase             string                   `json:"phase"`
	Source            string                   `json:"source"`
	Target            string                   `json:"target"`
	Modality          string                   `json:"modality"`
	Content           string                   `json:"content"`
	TechnicalMetadata *domain.TechnicalMetadata `json:"technical_metadata"`
	ComplianceTag     string                   `json:"compliance_tag"`
	BusinessImpact    string                   `json:"business_impact"`
}

// Draft produces one candidate Inject. It never returns an error: total
// parse failure yields a stub inject the critic is expected to reject.
func (g *Generator) Draft(ctx context.Context, in Input) domain.Inject {
	prompt := buildPrompt(in)

	raw, err := g.llm.Invoke(ctx, prompt, "")
	if err != nil {
		slog.Warn("generator: llm invoke failed, emitting stub inject", "inject_id", in.InjectID, "error", err)
		return stubInject(in)
	}

	var ri rawInject
	if err := jsonutil.Decode(raw, &ri); err != nil {
		slog.Warn("generator: could not parse llm response, emitting stub inject", "inject_id", in.InjectID, "error", err)
		return stubInject(in)
	}

	return repair(ri, in)
}

// repair fills missing/invalid fields with safe defaults rather than
// discarding an otherwise-usable draft (spec.md §4.4).
func repair(ri rawInject, in Input) domain.Inject {
	inject := domain.Inject{
		InjectID:   in.InjectID,
		TimeOffset: in.TimeOffset,
		Phase:      in.Phase,
		Source:     ri.Source,
		Target:     ri.Target,
		Modality:   domain.Modality(ri.Modality),
		Content:    strings.TrimSpace(ri.Content),
		ComplianceTag:  ri.ComplianceTag,
		BusinessImpact: ri.BusinessImpact,
		CreatedAt:      time.Now(),
	}

	if domain.ValidInjectID(ri.InjectID) {
		inject.InjectID = ri.InjectID
	}
	if domain.ValidTimeOffset(ri.TimeOffset) {
		inject.TimeOffset = ri.TimeOffset
	}
	if ri.Phase != "" && domain.Phase(ri.Phase).IsValid() {
		inject.Phase = domain.Phase(ri.Phase)
	}
	if ri.TechnicalMetadata != nil {
		inject.TechnicalMetadata = *ri.TechnicalMetadata
	} else if len(in.SelectedTTP.ID) > 0 {
		inject.TechnicalMetadata = domain.TechnicalMetadata{MITREID: in.SelectedTTP.ID}
	}
	if !domain.ContentLongEnough(inject.Content) {
		inject.Content = fmt.Sprintf("%s observed targeting %s via %s.", in.SelectedTTP.Name, inject.Target, in.Phase)
	}
	return inject
}

// stubInject is emitted when the LLM call or response parse fails
// entirely; it carries enough structure to reach the Critic, which is
// expected to reject it (spec.md §4.4, §7).
func stubInject(in Input) domain.Inject {
	return domain.Inject{
		InjectID:   in.InjectID,
		TimeOffset: in.TimeOffset,
		Phase:      in.Phase,
		Source:     "generator",
		Target:     "unknown",
		Modality:   domain.ModalityInternalReport,
		Content:    "Generator unavailable: stub inject pending review.",
		TechnicalMetadata: domain.TechnicalMetadata{
			AffectedAssets: nil,
		},
		CreatedAt: time.Now(),
	}
}

func buildPrompt(in Input) string {
	ids := make([]string, 0, len(in.StateSnapshot))
	for id := range in.StateSnapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Draft inject %s for a %s scenario in phase %s.\n", in.InjectID, in.ScenarioType, in.Phase)
	fmt.Fprintf(&sb, "Storyline goal: %s (target phase %s)\n", in.ManagerPlan.NextGoal, in.ManagerPlan.TargetPhase)
	fmt.Fprintf(&sb, "Selected technique: %s (%s) — %s\n", in.SelectedTTP.Name, in.SelectedTTP.ID, in.SelectedTTP.Description)
	fmt.Fprintf(&sb, "Valid asset ids (use only these, never invent new ones): %s\n", strings.Join(ids, ", "))
	fmt.Fprintf(&sb, "time_offset must be >= the last accepted inject's offset and match T+HH:MM[:SS].\n")
	fmt.Fprintf(&sb, "phase must be %s.\n", in.Phase)

	if in.ValidationFeedback != "" {
		fmt.Fprintf(&sb, "previous attempt rejected for: %s\n", in.ValidationFeedback)
	}
	if in.UserFeedback != "" {
		fmt.Fprintf(&sb, "Incident Response Team performed: %s. The next inject must causally reflect this action: "+
			"mitigation leads to recovery or a new attack vector; inaction leads to escalation.\n", in.UserFeedback)
	}

	sb.WriteString("Respond with JSON only, matching the Inject schema: ")
	sb.WriteString(`{"inject_id":"...","time_offset":"T+HH:MM","phase":"...","source":"...","target":"...",` +
		`"modality":"...","content":"...","technical_metadata":{"mitre_id":"...","affected_assets":["..."]},` +
		`"compliance_tag":"...","business_impact":"..."}`)
	return sb.String()
}
