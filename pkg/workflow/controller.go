package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/finhavoc/scenarioforge/pkg/agentic/critic"
	"github.com/finhavoc/scenarioforge/pkg/agentic/generator"
	"github.com/finhavoc/scenarioforge/pkg/agentic/manager"
	"github.com/finhavoc/scenarioforge/pkg/domain"
	"github.com/finhavoc/scenarioforge/pkg/forensics"
)

// StateStore is the narrow slice of pkg/statestore.Store the controller
// itself touches directly (state_check and state_update nodes).
type StateStore interface {
	GetCurrentState(ctx context.Context, ids ...string) (map[string]*domain.Entity, error)
	UpdateEntityStatus(ctx context.Context, entityID string, newStatus domain.EntityStatus, injectID string) error
}

// IntelProvider is the narrow interface the intel node consumes.
type IntelProvider interface {
	GetTTPs(ctx context.Context, scenarioType domain.ScenarioType, phase domain.Phase, k int) []domain.TTP
}

// Manager is the narrow interface the manager node consumes.
type Manager interface {
	Plan(ctx context.Context, in manager.Input) (domain.ManagerPlan, string)
}

// Generator is the narrow interface the generator node consumes.
type Generator interface {
	Draft(ctx context.Context, in generator.Input) domain.Inject
}

// Critic is the narrow interface the critic node consumes.
type Critic interface {
	Validate(ctx context.Context, in critic.Input) domain.ValidationResult
}

// Updater is the narrow interface the state_update node consumes.
type Updater interface {
	Apply(ctx context.Context, scenario *domain.Scenario, inject domain.Inject) []string
}

// Controller drives the node graph described in spec.md §4.7.
type Controller struct {
	store     StateStore
	intel     IntelProvider
	manager   Manager
	generator Generator
	critic    Critic
	updater   Updater
	log       *forensics.Log
}

// New builds a Controller from its node dependencies. log may be nil.
func New(store StateStore, intel IntelProvider, manager Manager, generator Generator, critic Critic, updater Updater, log *forensics.Log) *Controller {
	return &Controller{store: store, intel: intel, manager: manager, generator: generator, critic: critic, updater: updater, log: log}
}

// RunUntilDecision drives state through the node graph starting at
// state_check until it reaches end or suspends at a decision point.
func (c *Controller) RunUntilDecision(ctx context.Context, s *State) *State {
	node := NodeStateCheck
	for {
		switch node {
		case NodeStateCheck:
			c.stateCheck(ctx, s)
			node = NodeManager

		case NodeManager:
			c.managerNode(ctx, s)
			node = NodeIntel

		case NodeIntel:
			c.intelNode(ctx, s)
			node = NodeActionSelection

		case NodeActionSelection:
			c.actionSelection(s)
			node = NodeGenerator

		case NodeGenerator:
			c.generatorNode(ctx, s)
			node = NodeCritic

		case NodeCritic:
			c.criticNode(ctx, s)
			switch shouldRefine(s) {
			case edgeRefine:
				node = NodeGenerator
			default:
				node = NodeStateUpdate
			}

		case NodeStateUpdate:
			c.stateUpdateNode(ctx, s)
			s.Iteration++
			if s.Interactive && shouldAskDecision(s) {
				node = NodeDecisionPoint
			} else {
				switch shouldContinue(s) {
				case edgeEnd:
					node = NodeEnd
				default:
					node = NodeStateCheck
				}
			}

		case NodeDecisionPoint:
			c.suspendForDecision(s)
			return s

		case NodeEnd:
			return s
		}
	}
}

// ResumeAfterDecision applies choiceID's effects and resumes the run from
// state_check (spec.md §4.7).
func (c *Controller) ResumeAfterDecision(ctx context.Context, s *State, choiceID string) *State {
	if s.PendingDecision != nil {
		options := decisionOptions(s.PendingDecision.Phase)
		if opt, ok := optionByChoiceID(options, choiceID); ok {
			impact := c.applyDecisionEffects(ctx, s, opt)
			s.UserDecisions = append(s.UserDecisions, domain.Decision{
				ChoiceID:  choiceID,
				Phase:     s.PendingDecision.Phase,
				Timestamp: time.Now(),
				Impact:    impact,
			})
		} else {
			s.Warnings = append(s.Warnings, "unknown decision choice_id: "+choiceID)
		}
		s.DecidedPhase[s.PendingDecision.Phase] = true
		s.PendingDecision = nil
	}
	return c.RunUntilDecision(ctx, s)
}

// applyDecisionEffects writes opt's status effects to the state store and
// returns the measured per-asset status change for the decision record.
func (c *Controller) applyDecisionEffects(ctx context.Context, s *State, opt domain.DecisionOption) map[string]any {
	impact := make(map[string]any)
	for assetKey, status := range opt.Impact {
		targets := []string{assetKey}
		if assetKey == "*affected*" {
			targets = affectedAssetsOf(s)
		}
		for _, assetID := range targets {
			if err := c.store.UpdateEntityStatus(ctx, assetID, status, "decision:"+opt.ChoiceID); err != nil {
				s.Errors = append(s.Errors, err.Error())
				continue
			}
			impact[assetID] = status
		}
	}
	return impact
}

func (c *Controller) suspendForDecision(s *State) {
	s.PendingDecision = &domain.PendingDecision{
		ScenarioID: s.ScenarioID,
		Phase:      s.CurrentPhase,
		Options:    decisionOptions(s.CurrentPhase),
	}
	s.log("suspended at decision point for phase %s", s.CurrentPhase)
	c.audit(s, forensics.EventDecision, "", "suspended awaiting decision")
}

func (c *Controller) stateCheck(ctx context.Context, s *State) {
	snapshot, err := c.store.GetCurrentState(ctx)
	if err != nil {
		s.Errors = append(s.Errors, err.Error())
		return
	}
	s.StateSnapshot = snapshot
}

func (c *Controller) managerNode(ctx context.Context, s *State) {
	plan, warning := c.manager.Plan(ctx, manager.Input{
		ScenarioType:        s.ScenarioType,
		CurrentPhase:        s.CurrentPhase,
		StateSnapshot:       s.StateSnapshot,
		PriorInjectsSummary: s.priorInjectsSummary(),
	})
	s.ManagerPlan = plan
	if warning != "" {
		s.Warnings = append(s.Warnings, warning)
	}
}

func (c *Controller) intelNode(ctx context.Context, s *State) {
	s.AvailableTTPs = c.intel.GetTTPs(ctx, s.ScenarioType, s.CurrentPhase, 5)
}

// actionSelection picks one TTP via round-robin cursor, so repeated calls
// within a run cycle through the available set rather than always
// proposing the first-ranked technique.
func (c *Controller) actionSelection(s *State) {
	if len(s.AvailableTTPs) == 0 {
		s.SelectedTTP = domain.TTP{}
		return
	}
	s.SelectedTTP = s.AvailableTTPs[s.TTPCursor%len(s.AvailableTTPs)]
	s.TTPCursor++
}

func (c *Controller) generatorNode(ctx context.Context, s *State) {
	injectID := s.nextInjectID()
	feedback := ""
	if s.ValidationResult != nil && !s.ValidationResult.IsValid {
		feedback = strings.Join(s.ValidationResult.Errors, "; ")
		if s.Draft != nil {
			injectID = s.Draft.InjectID
		}
	}

	draft := c.generator.Draft(ctx, generator.Input{
		ScenarioType:       s.ScenarioType,
		Phase:              s.CurrentPhase,
		InjectID:           injectID,
		TimeOffset:         nextOffset(s.maxAcceptedOffset()),
		ManagerPlan:        s.ManagerPlan,
		SelectedTTP:        s.SelectedTTP,
		StateSnapshot:      s.StateSnapshot,
		PriorInjects:       s.Injects,
		ValidationFeedback: feedback,
		UserFeedback:       s.UserFeedback,
	})
	s.Draft = &draft
	c.audit(s, forensics.EventDraft, draft.InjectID, "draft produced")
}

func (c *Controller) criticNode(ctx context.Context, s *State) {
	if s.Draft == nil {
		return
	}
	result := c.critic.Validate(ctx, critic.Input{
		ScenarioID:         s.ScenarioID,
		Draft:              *s.Draft,
		CurrentPhase:       s.CurrentPhase,
		StateSnapshot:      s.StateSnapshot,
		MaxAcceptedOffset:  s.maxAcceptedOffset(),
		PriorInjects:       s.Injects,
		AcceptedTechniques: s.acceptedTechniques(),
		PriorOverallScores: s.PriorOverallScores,
	})
	s.ValidationResult = &result
	s.Errors = append(s.Errors, result.Errors...)
	s.Warnings = append(s.Warnings, result.Warnings...)
	if result.Metrics != nil {
		s.PriorOverallScores = append(s.PriorOverallScores, result.Metrics.OverallQualityScore)
	}
	if !result.IsValid {
		c.audit(s, forensics.EventRefined, s.Draft.InjectID, "rejected, refine requested")
	}
}

func (c *Controller) stateUpdateNode(ctx context.Context, s *State) {
	if s.Draft == nil {
		return
	}
	scenario := &domain.Scenario{ScenarioID: s.ScenarioID, Injects: s.Injects}
	warnings := c.updater.Apply(ctx, scenario, *s.Draft)
	s.Injects = scenario.Injects
	s.Warnings = append(s.Warnings, warnings...)

	s.CurrentPhase = s.Draft.Phase
	s.ValidationResult = nil
	s.Draft = nil
	s.UserFeedback = ""

	snapshot, err := c.store.GetCurrentState(ctx)
	if err != nil {
		s.Errors = append(s.Errors, err.Error())
	} else {
		s.StateSnapshot = snapshot
	}
}

func (c *Controller) audit(s *State, eventType forensics.EventType, injectID, message string) {
	if c.log == nil {
		return
	}
	if err := c.log.Append(forensics.Record{
		Timestamp:  time.Now(),
		EventType:  eventType,
		InjectID:   injectID,
		ScenarioID: s.ScenarioID,
		Message:    message,
	}); err != nil {
		slog.Warn("workflow: failed to append forensic record", "error", err)
	}
}

// nextOffset proposes the next inject's time offset five minutes after
// the last accepted one, satisfying the Critic's monotonic constraint by
// construction (the generator is still free to propose later times).
func nextOffset(maxAcceptedSeconds int) string {
	next := maxAcceptedSeconds + 5*60
	h := next / 3600
	m := (next % 3600) / 60
	sec := next % 60
	return fmt.Sprintf("T+%02d:%02d:%02d", h, m, sec)
}
