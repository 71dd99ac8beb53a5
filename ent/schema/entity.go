package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Entity holds the schema definition for the Entity (asset) node of the
// infrastructure graph — a server, database, network segment, workstation,
// or application tracked by the state store.
type Entity struct {
	ent.Schema
}

// Fields of the Entity.
func (Entity) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("entity_id").
			Unique().
			Immutable(),
		field.Enum("type").
			Values("Server", "Database", "Network", "Workstation", "Application"),
		field.String("name"),
		field.Enum("status").
			Values("online", "suspicious", "degraded", "compromised", "offline", "encrypted").
			Default("online"),
		field.Enum("criticality").
			Values("critical", "high", "standard").
			Default("standard"),
		field.Time("last_updated").
			Default(time.Now).
			UpdateDefault(time.Now),
		field.String("last_updated_by_inject").
			Optional().
			Nillable().
			Comment("inject_id that triggered the most recent status mutation"),
	}
}

// Edges of the Entity.
func (Entity) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("outgoing_relationships", Relationship.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("incoming_relationships", Relationship.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Entity.
func (Entity) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("type"),
		index.Fields("status"),
	}
}
