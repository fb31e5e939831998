package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ToggleHistory holds the schema definition for the ToggleHistory entity:
// a record of a TruthCore.ActivationStatus flip and its 48-hour grace
// window (§6 PATCH .../toggle).
type ToggleHistory struct {
	ent.Schema
}

// Fields of the ToggleHistory.
func (ToggleHistory) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("warehouse_id").
			Immutable(),
		field.Enum("from_status").
			Values("on", "off"),
		field.Enum("to_status").
			Values("on", "off"),
		field.String("actor_id"),
		field.Int("in_flight_match_count").
			Default(0),
		field.Time("grace_period_ends_at"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the ToggleHistory.
func (ToggleHistory) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("warehouse", Warehouse.Type).
			Ref("toggle_history").
			Field("warehouse_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the ToggleHistory.
func (ToggleHistory) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("warehouse_id"),
	}
}
