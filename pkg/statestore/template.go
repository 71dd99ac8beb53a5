package statestore

import (
	"fmt"

	"github.com/finhavoc/scenarioforge/pkg/domain"
)

// seedEntity is the minimal shape needed to create an Entity row; status
// always starts "online" and last_updated_by_inject is unset at seed time.
type seedEntity struct {
	ID          string
	Type        domain.EntityType
	Name        string
	Criticality domain.Criticality
}

type seedRelationship struct {
	SourceID string
	TargetID string
	Type     domain.RelationType
}

// Template describes an infrastructure graph to seed: the entities and
// their initial relationships.
type Template struct {
	Entities      []seedEntity
	Relationships []seedRelationship
}

// EnterpriseTemplate returns the canonical 40-entity infrastructure graph
// spec.md §4.1 names: 5 core servers, 15 app servers, 5 production
// databases, 5 development databases, 10 finance workstations.
func EnterpriseTemplate() Template {
	var t Template

	for i := 1; i <= 5; i++ {
		t.Entities = append(t.Entities, seedEntity{
			ID:          fmt.Sprintf("SRV-CORE-%03d", i),
			Type:        domain.EntityTypeServer,
			Name:        fmt.Sprintf("Core Server %d", i),
			Criticality: domain.CriticalityCritical,
		})
	}

	for i := 1; i <= 15; i++ {
		t.Entities = append(t.Entities, seedEntity{
			ID:          fmt.Sprintf("SRV-APP-%03d", i),
			Type:        domain.EntityTypeServer,
			Name:        fmt.Sprintf("Application Server %d", i),
			Criticality: domain.CriticalityHigh,
		})
	}

	for i := 1; i <= 5; i++ {
		t.Entities = append(t.Entities, seedEntity{
			ID:          fmt.Sprintf("DB-PROD-%02d", i),
			Type:        domain.EntityTypeDatabase,
			Name:        fmt.Sprintf("Production Database %d", i),
			Criticality: domain.CriticalityCritical,
		})
	}

	for i := 1; i <= 5; i++ {
		t.Entities = append(t.Entities, seedEntity{
			ID:          fmt.Sprintf("DB-DEV-%02d", i),
			Type:        domain.EntityTypeDatabase,
			Name:        fmt.Sprintf("Development Database %d", i),
			Criticality: domain.CriticalityStandard,
		})
	}

	for i := 1; i <= 10; i++ {
		t.Entities = append(t.Entities, seedEntity{
			ID:          fmt.Sprintf("WS-FINANCE-%02d", i),
			Type:        domain.EntityTypeWorkstation,
			Name:        fmt.Sprintf("Finance Workstation %d", i),
			Criticality: domain.CriticalityStandard,
		})
	}

	// Every app server runs on a core server, distributed round-robin
	// across the 5 core servers.
	for i := 1; i <= 15; i++ {
		coreIdx := ((i - 1) % 5) + 1
		t.Relationships = append(t.Relationships, seedRelationship{
			SourceID: fmt.Sprintf("SRV-APP-%03d", i),
			TargetID: fmt.Sprintf("SRV-CORE-%03d", coreIdx),
			Type:     domain.RelRunsOn,
		})
	}

	t.Relationships = append(t.Relationships,
		seedRelationship{SourceID: "SRV-APP-001", TargetID: "DB-PROD-01", Type: domain.RelUses},
		seedRelationship{SourceID: "SRV-APP-002", TargetID: "DB-PROD-02", Type: domain.RelUses},
		seedRelationship{SourceID: "SRV-APP-003", TargetID: "DB-DEV-01", Type: domain.RelUses},
	)

	// Production DBs replicate to the next production DB in sequence.
	for i := 1; i < 5; i++ {
		t.Relationships = append(t.Relationships, seedRelationship{
			SourceID: fmt.Sprintf("DB-PROD-%02d", i),
			TargetID: fmt.Sprintf("DB-PROD-%02d", i+1),
			Type:     domain.RelReplicatesTo,
		})
	}

	// Finance workstations connect to app servers, distributed round-robin.
	for i := 1; i <= 10; i++ {
		appIdx := ((i - 1) % 15) + 1
		t.Relationships = append(t.Relationships, seedRelationship{
			SourceID: fmt.Sprintf("WS-FINANCE-%02d", i),
			TargetID: fmt.Sprintf("SRV-APP-%03d", appIdx),
			Type:     domain.RelConnectsTo,
		})
	}

	return t
}
