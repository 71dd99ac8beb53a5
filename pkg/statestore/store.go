// Package statestore is the graph-backed repository of assets, their
// current status, and their relationships. It is consumed by the Critic
// (state-consistency checks), the StateUpdater (status mutation and
// cascade), and the Controller (state snapshots at state_check).
package statestore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finhavoc/scenarioforge/ent"
	"github.com/finhavoc/scenarioforge/ent/entity"
	"github.com/finhavoc/scenarioforge/ent/relationship"
	"github.com/finhavoc/scenarioforge/pkg/domain"
	"github.com/finhavoc/scenarioforge/pkg/errkit"
)

// Store is the StateStore implementation backed by an Ent/Postgres client
// (the GraphStore interface of spec.md §6, realized relationally: entity
// rows plus a typed relationship table stand in for nodes and edges).
type Store struct {
	db *ent.Client
}

// New wraps an Ent client as a StateStore.
func New(db *ent.Client) *Store {
	return &Store{db: db}
}

// SeedInfrastructure performs an idempotent bulk delete + create of the
// given template's entities and relationships, returning the entity count.
func (s *Store) SeedInfrastructure(ctx context.Context, tmpl Template) (int, error) {
	if _, err := s.db.Relationship.Delete().Exec(ctx); err != nil {
		return 0, errkit.NewStoreError("seed_infrastructure.delete_relationships", err)
	}
	if _, err := s.db.Entity.Delete().Exec(ctx); err != nil {
		return 0, errkit.NewStoreError("seed_infrastructure.delete_entities", err)
	}

	for _, e := range tmpl.Entities {
		_, err := s.db.Entity.Create().
			SetID(e.ID).
			SetType(entity.Type(e.Type)).
			SetName(e.Name).
			SetStatus(entity.StatusOnline).
			SetCriticality(entity.Criticality(e.Criticality)).
			Save(ctx)
		if err != nil {
			return 0, errkit.NewStoreError(fmt.Sprintf("seed_infrastructure.create_entity(%s)", e.ID), err)
		}
	}

	for _, r := range tmpl.Relationships {
		_, err := s.db.Relationship.Create().
			SetSourceID(r.SourceID).
			SetTargetID(r.TargetID).
			SetRelType(relationship.RelType(r.Type.String())).
			Save(ctx)
		if err != nil {
			return 0, errkit.NewStoreError(fmt.Sprintf("seed_infrastructure.create_relationship(%s->%s)", r.SourceID, r.TargetID), err)
		}
	}

	slog.Info("infrastructure seeded", "entities", len(tmpl.Entities), "relationships", len(tmpl.Relationships))

	return len(tmpl.Entities), nil
}

// GetCurrentState returns a snapshot of every entity, keyed by id. When
// ids is non-empty, the snapshot is restricted to those ids.
func (s *Store) GetCurrentState(ctx context.Context, ids ...string) (map[string]*domain.Entity, error) {
	q := s.db.Entity.Query()
	if len(ids) > 0 {
		q = q.Where(entity.IDIn(ids...))
	}

	rows, err := q.All(ctx)
	if err != nil {
		return nil, errkit.NewStoreError("get_current_state", err)
	}

	out := make(map[string]*domain.Entity, len(rows))
	for _, row := range rows {
		out[row.ID] = toDomainEntity(row)
	}
	return out, nil
}

// UpdateEntityStatus writes a new status, stamping last_updated=now and
// attributing the change to injectID (empty when there is no attribution).
func (s *Store) UpdateEntityStatus(ctx context.Context, entityID string, newStatus domain.EntityStatus, injectID string) error {
	upd := s.db.Entity.UpdateOneID(entityID).
		SetStatus(entity.Status(newStatus)).
		SetLastUpdated(time.Now())

	if injectID != "" {
		upd = upd.SetLastUpdatedByInject(injectID)
	}

	if _, err := upd.Save(ctx); err != nil {
		return errkit.NewStoreError(fmt.Sprintf("update_entity_status(%s)", entityID), err)
	}
	return nil
}

// GetEntityStatus is a single-entity read.
func (s *Store) GetEntityStatus(ctx context.Context, entityID string) (*domain.Entity, error) {
	row, err := s.db.Entity.Get(ctx, entityID)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, &errkit.StateError{AssetID: entityID}
		}
		return nil, errkit.NewStoreError(fmt.Sprintf("get_entity_status(%s)", entityID), err)
	}
	return toDomainEntity(row), nil
}

// GetAffectedEntities returns the entities reachable via entityID's
// outgoing relationships, one hop only — the second-order cascade depth
// StateUpdater uses is intentionally non-recursive (spec.md §4.1).
func (s *Store) GetAffectedEntities(ctx context.Context, entityID string) ([]*domain.Entity, error) {
	rels, err := s.db.Relationship.Query().
		Where(relationship.SourceID(entityID)).
		All(ctx)
	if err != nil {
		return nil, errkit.NewStoreError(fmt.Sprintf("get_affected_entities(%s)", entityID), err)
	}

	if len(rels) == 0 {
		return nil, nil
	}

	targetIDs := make([]string, 0, len(rels))
	for _, r := range rels {
		targetIDs = append(targetIDs, r.TargetID)
	}

	rows, err := s.db.Entity.Query().Where(entity.IDIn(targetIDs...)).All(ctx)
	if err != nil {
		return nil, errkit.NewStoreError(fmt.Sprintf("get_affected_entities(%s).resolve_targets", entityID), err)
	}

	out := make([]*domain.Entity, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainEntity(row))
	}
	return out, nil
}

func toDomainEntity(row *ent.Entity) *domain.Entity {
	e := &domain.Entity{
		ID:          row.ID,
		Type:        domain.EntityType(row.Type),
		Name:        row.Name,
		Status:      domain.EntityStatus(row.Status),
		Criticality: domain.Criticality(row.Criticality),
		LastUpdated: row.LastUpdated,
	}
	if row.LastUpdatedByInject != nil {
		e.LastUpdatedByInject = *row.LastUpdatedByInject
	}
	return e
}
