package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Decision holds the schema definition for one human-in-the-loop choice
// applied at a decision point during an interactive run.
type Decision struct {
	ent.Schema
}

// Fields of the Decision.
func (Decision) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("scenario_id").
			Immutable(),
		field.String("choice_id").
			Immutable(),
		field.Enum("phase").
			Values(
				"NORMAL_OPERATION",
				"SUSPICIOUS_ACTIVITY",
				"INITIAL_INCIDENT",
				"ESCALATION_CRISIS",
				"CONTAINMENT",
				"RECOVERY",
			).
			Immutable(),
		field.JSON("impact", map[string]interface{}{}).
			Optional().
			Immutable(),
		field.Time("timestamp").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Decision.
func (Decision) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("scenario", Scenario.Type).
			Ref("decisions").
			Field("scenario_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Decision.
func (Decision) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("scenario_id", "timestamp"),
	}
}
