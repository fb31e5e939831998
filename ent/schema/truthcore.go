package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// TruthCore holds the schema definition for the TruthCore entity: the
// mutable, 1:1 listing attached to a Warehouse once activated.
type TruthCore struct {
	ent.Schema
}

// Fields of the TruthCore.
func (TruthCore) Fields() []ent.Field {
	return []ent.Field{
		field.String("warehouse_id").
			Unique().
			Immutable(),
		field.Int("min_sqft"),
		field.Int("max_sqft"),
		field.Enum("activity_tier").
			Values("storage_only", "storage_office", "storage_light_assembly", "cold_storage"),
		field.Bool("has_office_space").
			Default(false),
		field.Time("available_from"),
		field.Float("supplier_rate_per_sqft"),
		field.Enum("activation_status").
			Values("on", "off").
			Default("off"),
		field.Enum("trust_level").
			Values("unverified", "verified", "preferred").
			Default("unverified"),
		field.Int("dock_doors").
			Default(0),
		field.Float("clear_height_ft").
			Default(0),
		field.Bool("has_sprinkler").
			Default(false),
		field.Int("power_amps").
			Default(0),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the TruthCore.
func (TruthCore) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("warehouse", Warehouse.Type).
			Ref("truth_core").
			Field("warehouse_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the TruthCore.
func (TruthCore) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("activation_status"),
	}
}
