// Package updater implements the StateUpdater: applies an accepted
// inject's effects to the infrastructure graph, deriving asset status
// from inject content and propagating a softened second-order cascade to
// dependent assets.
package updater

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/finhavoc/scenarioforge/pkg/domain"
	"github.com/finhavoc/scenarioforge/pkg/forensics"
)

// StateStore is the narrow interface Updater consumes.
type StateStore interface {
	GetEntityStatus(ctx context.Context, entityID string) (*domain.Entity, error)
	UpdateEntityStatus(ctx context.Context, entityID string, newStatus domain.EntityStatus, injectID string) error
	GetAffectedEntities(ctx context.Context, entityID string) ([]*domain.Entity, error)
}

// Updater applies accepted-inject effects to the state store.
type Updater struct {
	store StateStore
	log   *forensics.Log
}

// New builds an Updater over the given state store. log may be nil.
func New(store StateStore, log *forensics.Log) *Updater {
	return &Updater{store: store, log: log}
}

// keywordStatus maps a content keyword to the status it implies, ordered
// most to least severe so the first match wins on ambiguous content.
var keywordStatus = []struct {
	keywords []string
	status   domain.EntityStatus
}{
	{[]string{"compromised", "encrypted", "breach", "ransomware"}, domain.StatusCompromised},
	{[]string{"degraded", "suspicious", "anomaly"}, domain.StatusDegraded},
	{[]string{"offline", "down"}, domain.StatusOffline},
}

func deriveStatus(content string) (domain.EntityStatus, bool) {
	lower := strings.ToLower(content)
	for _, entry := range keywordStatus {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.status, true
			}
		}
	}
	return "", false
}

// softerStatus returns the dampened status a dependent asset receives
// when its upstream asset reaches primaryStatus (spec.md §4.6: primary
// compromised → dependents degraded).
func softerStatus(primaryStatus domain.EntityStatus) domain.EntityStatus {
	switch primaryStatus {
	case domain.StatusCompromised, domain.StatusEncrypted:
		return domain.StatusDegraded
	case domain.StatusDegraded, domain.StatusOffline:
		return domain.StatusSuspicious
	default:
		return domain.StatusSuspicious
	}
}

// Apply derives and writes the primary status effects for inject, then
// propagates a one-hop second-order cascade to dependent assets, and
// finally appends inject to scenario.Injects. Store failures are
// collected as warnings rather than aborting the update (spec.md §4.1).
func (u *Updater) Apply(ctx context.Context, scenario *domain.Scenario, inject domain.Inject) []string {
	var warnings []string
	appliedPrimary := make(map[string]domain.EntityStatus)

	for _, assetID := range inject.TechnicalMetadata.AffectedAssets {
		derived, ok := deriveStatus(inject.Content)
		if !ok {
			continue
		}

		current, err := u.store.GetEntityStatus(ctx, assetID)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("updater: could not read current status of %s: %v", assetID, err))
			continue
		}

		final := derived
		if domain.MoreSevere(current.Status, derived) {
			final = current.Status // never downgrade severity within a single inject
		}

		if err := u.store.UpdateEntityStatus(ctx, assetID, final, inject.InjectID); err != nil {
			warnings = append(warnings, fmt.Sprintf("updater: could not update status of %s: %v", assetID, err))
			continue
		}
		appliedPrimary[assetID] = final
	}

	for assetID, status := range appliedPrimary {
		dependents, err := u.store.GetAffectedEntities(ctx, assetID)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("updater: cascade lookup failed for %s: %v", assetID, err))
			continue
		}

		softened := softerStatus(status)
		for _, dep := range dependents {
			if domain.MoreSevere(dep.Status, softened) || dep.Status == softened {
				continue
			}
			if err := u.store.UpdateEntityStatus(ctx, dep.ID, softened, inject.InjectID); err != nil {
				warnings = append(warnings, fmt.Sprintf("updater: cascade update failed for %s: %v", dep.ID, err))
			}
		}
	}

	scenario.Injects = append(scenario.Injects, inject)
	u.audit(scenario.ScenarioID, inject, warnings)
	return warnings
}

func (u *Updater) audit(scenarioID string, inject domain.Inject, warnings []string) {
	if u.log == nil {
		return
	}
	message := "state updated"
	if len(warnings) > 0 {
		message = fmt.Sprintf("state updated with %d warning(s)", len(warnings))
	}
	if err := u.log.Append(forensics.Record{
		Timestamp:  time.Now(),
		EventType:  forensics.EventStateUpdate,
		InjectID:   inject.InjectID,
		ScenarioID: scenarioID,
		Message:    message,
		Details:    map[string]any{"affected_assets": inject.TechnicalMetadata.AffectedAssets, "warnings": warnings},
	}); err != nil {
		slog.Warn("updater: failed to append forensic record", "error", err)
	}
}
