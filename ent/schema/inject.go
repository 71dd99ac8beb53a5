package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Inject holds the schema definition for one accepted atomic event within
// a Scenario's timeline.
type Inject struct {
	ent.Schema
}

// Fields of the Inject.
func (Inject) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("inject_id").
			Immutable().
			Comment("matches INJ-\\d{3,}, unique within its scenario"),
		field.String("scenario_id").
			Immutable(),
		field.String("time_offset").
			Immutable().
			Comment("T+HH:MM or T+HH:MM:SS, relative to scenario start"),
		field.Enum("phase").
			Values(
				"NORMAL_OPERATION",
				"SUSPICIOUS_ACTIVITY",
				"INITIAL_INCIDENT",
				"ESCALATION_CRISIS",
				"CONTAINMENT",
				"RECOVERY",
			),
		field.String("source"),
		field.String("target"),
		field.Enum("modality").
			Values("SIEM Alert", "Email", "Phone Call", "Physical Event", "News Report", "Internal Report"),
		field.Text("content"),
		field.JSON("technical_metadata", map[string]interface{}{}),
		field.String("compliance_tag").Optional(),
		field.String("business_impact").Optional(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Inject.
func (Inject) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("scenario", Scenario.Type).
			Ref("injects").
			Field("scenario_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Inject.
func (Inject) Indexes() []ent.Index {
	return []ent.Index{
		// inject_id is unique only within its scenario, not globally.
		index.Fields("scenario_id", "id").Unique(),
		index.Fields("scenario_id", "time_offset"),
	}
}
