package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Match holds the schema definition for the Match entity: a scored
// (BuyerNeed × Warehouse) pair, the output of the Clear operation.
type Match struct {
	ent.Schema
}

// Fields of the Match.
func (Match) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("buyer_need_id").
			Immutable(),
		field.String("warehouse_id").
			Immutable(),
		field.Enum("status").
			Values("pending", "presented", "accepted", "declined").
			Default("pending"),
		field.Float("match_score"),
		field.Float("location_score"),
		field.Float("size_score"),
		field.Float("use_type_score"),
		field.Float("feature_score"),
		field.Float("timing_score"),
		field.Float("budget_score"),
		field.Text("reasoning").
			Optional(),
		field.Bool("instant_book_eligible").
			Default(false),
		field.Bool("within_budget").
			Default(true),
		field.Float("buyer_rate_per_sqft"),
		field.Float("supplier_rate_per_sqft"),
		field.Float("distance_miles"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Match.
func (Match) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("buyer_need", BuyerNeed.Type).
			Ref("matches").
			Field("buyer_need_id").
			Unique().
			Required().
			Immutable(),
		edge.From("warehouse", Warehouse.Type).
			Ref("matches").
			Field("warehouse_id").
			Unique().
			Required().
			Immutable(),
		edge.To("instant_book_score", InstantBookScore.Type).
			Unique(),
		edge.To("engagement", Engagement.Type).
			Unique(),
	}
}

// Indexes of the Match.
func (Match) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("buyer_need_id"),
		index.Fields("warehouse_id"),
	}
}
