// Package critic implements the CriticAgent: the symbolic validator that
// decides accept/reject on a draft inject. This is the central
// neuro-symbolic gate — state is mutated only after a draft clears this
// pipeline (or exhausts its refine budget).
package critic

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/finhavoc/scenarioforge/pkg/domain"
	"github.com/finhavoc/scenarioforge/pkg/errkit"
	"github.com/finhavoc/scenarioforge/pkg/forensics"
	"github.com/finhavoc/scenarioforge/pkg/jsonutil"
)

// LLM is the narrow interface Critic consumes for step 6.
type LLM interface {
	Invoke(ctx context.Context, prompt, modelHint string) (string, error)
}

// Critic runs the seven-step symbolic validation pipeline, or (in legacy
// mode) accepts unconditionally for A/B measurement.
type Critic struct {
	llm                 LLM
	mode                domain.Mode
	complianceStandards []string
	log                 *forensics.Log
}

// New builds a Critic. log may be nil, in which case audit records are
// not persisted (used in unit tests exercising the pipeline in isolation).
func New(llm LLM, mode domain.Mode, complianceStandards []string, log *forensics.Log) *Critic {
	return &Critic{llm: llm, mode: mode, complianceStandards: complianceStandards, log: log}
}

// Input bundles everything CriticAgent consumes per spec.md §4.5.
type Input struct {
	ScenarioID          string
	Draft               domain.Inject
	CurrentPhase        domain.Phase
	StateSnapshot       map[string]*domain.Entity
	MaxAcceptedOffset   int
	PriorInjects        []domain.Inject
	AcceptedTechniques  []string
	PriorOverallScores  []float64
}

// Validate runs the pipeline and returns the structured verdict.
func (c *Critic) Validate(ctx context.Context, in Input) domain.ValidationResult {
	if c.mode == domain.ModeLegacy {
		result := domain.ValidationResult{IsValid: true, LogicalConsistency: true, ComplianceOK: true, CausalValidity: true}
		c.audit(in, "legacy mode: no checks performed", result)
		return result
	}

	acc := &accumulator{}

	// Step 1: schema.
	if errs := schemaErrors(in.Draft); len(errs) > 0 {
		acc.reject(errs...)
		return c.finalize(in, acc, "schema validation failed — no llm call made")
	}
	acc.schemaScore = 1

	// Step 2: FSM phase transition.
	if !domain.IsSuccessor(in.CurrentPhase, in.Draft.Phase) {
		err := &errkit.FSMError{From: string(in.CurrentPhase), To: string(in.Draft.Phase)}
		acc.reject(err.Error())
		return c.finalize(in, acc, "fsm validation failed — no llm call made")
	}

	// Step 3: state consistency.
	for _, assetID := range in.Draft.TechnicalMetadata.AffectedAssets {
		entity, ok := in.StateSnapshot[assetID]
		if !ok {
			err := &errkit.StateError{AssetID: assetID}
			acc.reject(err.Error())
			return c.finalize(in, acc, "state consistency failed — no llm call made")
		}
		if entity.Name != "" && !strings.Contains(strings.ToLower(in.Draft.Content), strings.ToLower(entity.Name)) {
			acc.warn(fmt.Sprintf("draft content does not mention canonical name %q for asset %s", entity.Name, assetID))
		}
	}
	acc.assetScore = 1

	// Step 4: temporal consistency.
	offset, ok := domain.ParseTimeOffset(in.Draft.TimeOffset)
	if !ok || offset < in.MaxAcceptedOffset {
		err := &errkit.TemporalError{
			Offset:    in.Draft.TimeOffset,
			MaxOffset: formatOffset(in.MaxAcceptedOffset),
			InjectID:  in.Draft.InjectID,
		}
		acc.reject(err.Error())
		return c.finalize(in, acc, "Temporal error — no LLM call")
	}
	acc.temporalScore = 1

	// Step 5: causal plausibility.
	if reason, impossible := causalImplausibility(in); impossible {
		err := &errkit.CausalError{Reason: reason}
		acc.reject(err.Error())
		return c.finalize(in, acc, "causal validation failed — no llm call made")
	} else if reason != "" {
		acc.warn(reason)
	}
	acc.causalScore = 1

	// Step 6: LLM-assisted logical consistency.
	verdict, rawResponse, err := c.callLLM(ctx, in)
	if err != nil {
		acc.reject("validator unavailable")
		acc.logicalScore = 0
		return c.finalize(in, acc, rawResponse)
	}
	acc.warnings = append(acc.warnings, verdict.Warnings...)
	if len(verdict.Errors) > 0 {
		acc.reject(verdict.Errors...)
	} else {
		acc.logicalScore = boolScore(verdict.LogicalConsistency)
		acc.causalScore = boolScore(verdict.CausalValidity)
	}
	acc.complianceOK = verdict.RegulatoryCompliance

	// Step 7: compliance validation (quality signal only — never rejects).
	missing := evaluateCompliance(in.Draft, c.complianceStandards)
	if len(missing) > 0 {
		acc.complianceOK = false
		for _, m := range missing {
			acc.warn(fmt.Sprintf("compliance: %s", m))
		}
	} else if acc.complianceOK {
		acc.complianceScore = 1
	}

	return c.finalize(in, acc, rawResponse)
}

// accumulator tracks the pipeline's running verdict as each step executes.
type accumulator struct {
	errors   []string
	warnings []string

	schemaScore     float64
	assetScore      float64
	temporalScore   float64
	causalScore     float64
	logicalScore    float64
	complianceScore float64
	complianceOK    bool
}

func (a *accumulator) reject(errs ...string) { a.errors = append(a.errors, errs...) }
func (a *accumulator) warn(w string)         { a.warnings = append(a.warnings, w) }

func (c *Critic) finalize(in Input, acc *accumulator, llmRaw string) domain.ValidationResult {
	isValid := len(acc.errors) == 0
	metrics := domain.QualityMetrics{
		LogicalConsistencyScore:  acc.logicalScore,
		CausalValidityScore:      acc.causalScore,
		ComplianceScore:          acc.complianceScore,
		TemporalConsistencyScore: acc.temporalScore,
		AssetConsistencyScore:    acc.assetScore,
	}
	metrics.OverallQualityScore = domain.OverallQualityScore(metrics)
	attachConfidence(&metrics, in.PriorOverallScores)

	result := domain.ValidationResult{
		IsValid:            isValid,
		LogicalConsistency: acc.logicalScore > 0,
		ComplianceOK:       acc.complianceOK,
		CausalValidity:     acc.causalScore > 0,
		Errors:             acc.errors,
		Warnings:           acc.warnings,
		Metrics:            &metrics,
	}
	c.audit(in, llmRaw, result)
	return result
}

func (c *Critic) callLLM(ctx context.Context, in Input) (domain.LLMVerdict, string, error) {
	prompt := buildLLMPrompt(in)
	raw, err := c.llm.Invoke(ctx, prompt, "")
	if err != nil {
		return domain.LLMVerdict{}, "", errkit.NewLLMError("critic", err)
	}

	var verdict domain.LLMVerdict
	if err := jsonutil.Decode(raw, &verdict); err != nil {
		return domain.LLMVerdict{}, raw, errkit.NewLLMError("critic", err)
	}
	return verdict, raw, nil
}

func (c *Critic) audit(in Input, llmRaw string, result domain.ValidationResult) {
	if c.log == nil {
		return
	}
	message := "accepted"
	if !result.IsValid {
		message = "rejected: " + strings.Join(result.Errors, "; ")
	}
	_ = c.log.Append(forensics.Record{
		Timestamp:  time.Now(),
		EventType:  forensics.EventCritic,
		InjectID:   in.Draft.InjectID,
		ScenarioID: in.ScenarioID,
		Message:    message,
		Details: map[string]any{
			"state_snapshot": in.StateSnapshot,
			"draft":          in.Draft,
			"llm_response":   llmRaw,
			"errors":         result.Errors,
			"warnings":       result.Warnings,
		},
	})
}

func schemaErrors(draft domain.Inject) []string {
	var errs []string
	if !domain.ValidInjectID(draft.InjectID) {
		errs = append(errs, errkit.NewSchemaError("inject_id", fmt.Sprintf("%q does not match INJ-\\d{3,}", draft.InjectID)).Error())
	}
	if !domain.ValidTimeOffset(draft.TimeOffset) {
		errs = append(errs, errkit.NewSchemaError("time_offset", fmt.Sprintf("%q does not match T+HH:MM[:SS]", draft.TimeOffset)).Error())
	}
	if !draft.Phase.IsValid() {
		errs = append(errs, errkit.NewSchemaError("phase", fmt.Sprintf("%q is not a recognized phase", draft.Phase)).Error())
	}
	if !domain.ContentLongEnough(draft.Content) {
		errs = append(errs, errkit.NewSchemaError("content", "must be at least 10 characters").Error())
	}
	return errs
}

// causalImplausibility flags the genuinely impossible sequences (data
// exfiltration before any initial access); anything merely unusual is
// surfaced as a warning string with impossible=false.
func causalImplausibility(in Input) (reason string, impossible bool) {
	mitreID := in.Draft.TechnicalMetadata.MITREID
	if mitreID == "" {
		return "", false
	}
	if isExfiltrationTechnique(mitreID) && !hasPriorInitialAccess(in.AcceptedTechniques) {
		return "exfiltration technique attached before any initial-access technique was established", true
	}
	if isImpactTechnique(mitreID) && len(in.PriorInjects) == 0 && in.CurrentPhase == domain.PhaseNormalOperation {
		return "impact-stage technique introduced with no preceding injects", false
	}
	return "", false
}

func isExfiltrationTechnique(id string) bool {
	return strings.HasPrefix(id, "T1567") || strings.HasPrefix(id, "T1048") || strings.HasPrefix(id, "T1041")
}

func isImpactTechnique(id string) bool {
	return strings.HasPrefix(id, "T1486") || strings.HasPrefix(id, "T1489") || strings.HasPrefix(id, "T1490")
}

func hasPriorInitialAccess(techniques []string) bool {
	for _, t := range techniques {
		if strings.HasPrefix(t, "T1566") || strings.HasPrefix(t, "T1078") || strings.HasPrefix(t, "T1190") {
			return true
		}
	}
	return false
}

// evaluateCompliance returns the missing mandatory requirement
// descriptions for each enabled framework, using keyword heuristics over
// the draft's content and metadata.
func evaluateCompliance(draft domain.Inject, frameworks []string) []string {
	content := strings.ToLower(draft.Content)
	var missing []string
	for _, framework := range frameworks {
		switch strings.ToUpper(framework) {
		case "DORA":
			if !strings.Contains(content, "incident") && !strings.Contains(content, "disruption") {
				missing = append(missing, "DORA requires incident/disruption framing")
			}
		case "NIST":
			if draft.TechnicalMetadata.MITREID == "" {
				missing = append(missing, "NIST requires a mapped MITRE technique")
			}
		case "ISO27001":
			if draft.ComplianceTag == "" {
				missing = append(missing, "ISO27001 requires a compliance_tag annotation")
			}
		}
	}
	return missing
}

func boolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func formatOffset(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("T+%02d:%02d:%02d", h, m, s)
}

// attachConfidence computes a 95% confidence interval and a simple
// significance p-value against a reference mean of 0.7, once at least
// two prior overall scores exist (spec.md §4.5). These are observability
// only — never used for the accept/reject decision.
func attachConfidence(m *domain.QualityMetrics, priors []float64) {
	if len(priors) < 2 {
		return
	}
	samples := append(append([]float64(nil), priors...), m.OverallQualityScore)
	mean := meanOf(samples)
	sd := stddevOf(samples, mean)
	n := float64(len(samples))
	marginOfError := 1.96 * sd / math.Sqrt(n)

	low := mean - marginOfError
	high := mean + marginOfError
	m.ConfidenceIntervalLow = &low
	m.ConfidenceIntervalHigh = &high

	tStat := (mean - 0.7) / (sd / math.Sqrt(n))
	pValue := 2 * (1 - normalCDF(math.Abs(tStat)))
	m.PValue = &pValue
}

func buildLLMPrompt(in Input) string {
	ids := make([]string, 0, len(in.StateSnapshot))
	for id := range in.StateSnapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	sb.WriteString("Evaluate the following draft inject for logical consistency, regulatory compliance, and causal validity.\n")
	fmt.Fprintf(&sb, "Draft: %+v\n", in.Draft)
	fmt.Fprintf(&sb, "Available asset ids (do not treat any other id as valid): %s\n", strings.Join(ids, ", "))
	sb.WriteString("Checklist: phase must follow the FSM, assets must exist, time must not regress, techniques must be causally plausible.\n")
	sb.WriteString(`Respond with JSON only: {"logical_consistency":true,"regulatory_compliance":true,"causal_validity":true,"errors":[],"warnings":[]}`)
	return sb.String()
}

func meanOf(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddevOf(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	variance := sumSq / float64(len(xs)-1)
	return math.Sqrt(variance)
}

// normalCDF approximates the standard normal CDF via the Abramowitz and
// Stegun rational approximation, sufficient for the observability-only
// p-value here.
func normalCDF(x float64) float64 {
	t := 1 / (1 + 0.2316419*x)
	poly := t * (0.319381530 + t*(-0.356563782+t*(1.781477937+t*(-1.821255978+t*1.330274429))))
	return 1 - poly*standardNormalPDF(x)
}

func standardNormalPDF(x float64) float64 {
	const invSqrt2Pi = 0.3989422804014327
	return invSqrt2Pi * math.Exp(-x*x/2)
}
