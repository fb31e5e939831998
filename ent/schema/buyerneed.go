package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// BuyerNeed holds the schema definition for the BuyerNeed entity: the
// demand side of clearing (§3).
type BuyerNeed struct {
	ent.Schema
}

// Fields of the BuyerNeed.
func (BuyerNeed) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("company_id"),
		field.String("created_by"),
		field.String("city"),
		field.String("state"),
		field.String("zipcode"),
		field.Float("lat").
			Optional().
			Nillable(),
		field.Float("lng").
			Optional().
			Nillable(),
		field.Float("radius_miles").
			Default(25),
		field.Int("min_sqft"),
		field.Int("max_sqft"),
		field.Enum("use_type").
			Values("storage", "office", "storage_office", "ecommerce_fulfillment", "cold_storage", "food_grade", "manufacturing_light", "general"),
		field.Time("needed_from"),
		field.Int("duration_months"),
		field.Float("max_budget_per_sqft").
			Optional().
			Nillable(),
		field.Text("requirements").
			Optional(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the BuyerNeed.
func (BuyerNeed) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("company", Company.Type).
			Ref("buyer_needs").
			Field("company_id").
			Unique().
			Required(),
		edge.To("matches", Match.Type),
	}
}

// Indexes of the BuyerNeed.
func (BuyerNeed) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("company_id"),
		index.Fields("lat", "lng"),
	}
}
