package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ContextualMemory holds the schema definition for the ContextualMemory
// entity: per-warehouse learning notes the feature-alignment pass and
// future routing read back (§4.1.2).
type ContextualMemory struct {
	ent.Schema
}

// Fields of the ContextualMemory.
func (ContextualMemory) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("warehouse_id").
			Immutable(),
		field.Enum("kind").
			Values("dla_declined", "dla_expired", "dla_no_response", "dla_activated", "rate_floor_indicated"),
		field.Text("note").
			Optional(),
		field.JSON("data", map[string]any{}).
			Optional(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the ContextualMemory.
func (ContextualMemory) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("warehouse", Warehouse.Type).
			Ref("contextual_memories").
			Field("warehouse_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the ContextualMemory.
func (ContextualMemory) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("warehouse_id", "kind"),
	}
}
