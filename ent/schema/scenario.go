package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Scenario holds the schema definition for one generation run's output:
// the ordered timeline of injects plus run-level bookkeeping.
type Scenario struct {
	ent.Schema
}

// Fields of the Scenario.
func (Scenario) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("scenario_id").
			Unique().
			Immutable(),
		field.Enum("scenario_type").
			Values(
				"RANSOMWARE_DOUBLE_EXTORTION",
				"DDOS_CRITICAL_FUNCTIONS",
				"SUPPLY_CHAIN_COMPROMISE",
				"INSIDER_THREAT_DATA_MANIPULATION",
			).
			Immutable(),
		field.Enum("current_phase").
			Values(
				"NORMAL_OPERATION",
				"SUSPICIOUS_ACTIVITY",
				"INITIAL_INCIDENT",
				"ESCALATION_CRISIS",
				"CONTAINMENT",
				"RECOVERY",
			).
			Default("NORMAL_OPERATION"),
		field.Time("start_time").
			Default(time.Now).
			Immutable(),
		field.JSON("metadata", map[string]interface{}{}).
			Optional(),
	}
}

// Edges of the Scenario.
func (Scenario) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("injects", Inject.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("audit_records", ValidationAudit.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("decisions", Decision.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Scenario.
func (Scenario) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("scenario_type"),
		index.Fields("start_time"),
	}
}
