package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Relationship holds the schema definition for a directed, typed edge
// between two Entity nodes (RUNS_ON, USES, CONNECTS_TO, ...).
type Relationship struct {
	ent.Schema
}

// Fields of the Relationship.
func (Relationship) Fields() []ent.Field {
	return []ent.Field{
		field.String("source_id").Immutable(),
		field.String("target_id").Immutable(),
		field.Enum("rel_type").
			Values("RUNS_ON", "USES", "CONNECTS_TO", "REPLICATES_TO", "PROTECTS",
				"ROUTES_TO", "DISTRIBUTES_TO", "CALLS", "PEER_TO_PEER").
			Immutable(),
	}
}

// Edges of the Relationship.
func (Relationship) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("source_entity", Entity.Type).
			Ref("outgoing_relationships").
			Field("source_id").
			Unique().
			Required().
			Immutable(),
		edge.From("target_entity", Entity.Type).
			Ref("incoming_relationships").
			Field("target_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Relationship.
func (Relationship) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("source_id", "rel_type"),
		index.Fields("target_id"),
	}
}
