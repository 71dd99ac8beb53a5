package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ValidationAudit holds the schema definition for one append-only forensic
// record: a draft, a critic verdict, a refinement, a state update, or a
// decision. This is the durable mirror of the JSON-lines forensic trace —
// the ground truth for evaluation.
type ValidationAudit struct {
	ent.Schema
}

// Fields of the ValidationAudit.
func (ValidationAudit) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("scenario_id").
			Immutable(),
		field.String("inject_id").
			Optional().
			Immutable(),
		field.Enum("event_type").
			Values("DRAFT", "CRITIC", "REFINED", "STATE_UPDATE", "DECISION").
			Immutable(),
		field.Text("message").
			Immutable(),
		field.JSON("details", map[string]interface{}{}).
			Optional().
			Immutable().
			Comment("exact inputs/outputs of the step — not a paraphrase"),
		field.Time("timestamp").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the ValidationAudit.
func (ValidationAudit) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("scenario", Scenario.Type).
			Ref("audit_records").
			Field("scenario_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the ValidationAudit.
func (ValidationAudit) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("scenario_id", "timestamp"),
		index.Fields("inject_id"),
	}
}
