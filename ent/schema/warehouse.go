package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Warehouse holds the schema definition for the Warehouse entity.
type Warehouse struct {
	ent.Schema
}

// Fields of the Warehouse.
func (Warehouse) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("company_id"),
		field.String("created_by"),
		field.String("address"),
		field.String("city"),
		field.String("state"),
		field.String("zipcode"),
		field.Float("lat").
			Optional().
			Nillable(),
		field.Float("lng").
			Optional().
			Nillable(),
		field.Int("building_size_sqft"),
		field.Int("year_built").
			Optional().
			Nillable(),
		field.Strings("gallery").
			Optional(),
		field.String("phone").
			Optional(),
		field.Enum("supplier_status").
			Values("third_party", "earncheck_only", "interested", "in_network", "declined", "unresponsive").
			Default("third_party"),
		field.Time("last_outreach_at").
			Optional().
			Nillable(),
		field.Int("outreach_count").
			Default(0),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the Warehouse.
func (Warehouse) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("company", Company.Type).
			Ref("warehouses").
			Field("company_id").
			Unique().
			Required(),
		edge.To("truth_core", TruthCore.Type).
			Unique(),
		edge.To("toggle_history", ToggleHistory.Type),
		edge.To("supplier_agreements", SupplierAgreement.Type),
		edge.To("contextual_memories", ContextualMemory.Type),
		edge.To("matches", Match.Type),
		edge.To("property_questions", PropertyQuestion.Type),
		edge.To("property_knowledge_entries", PropertyKnowledgeEntry.Type),
	}
}

// Indexes of the Warehouse.
func (Warehouse) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("company_id"),
		index.Fields("state"),
		index.Fields("supplier_status"),
		index.Fields("lat", "lng"),
	}
}
