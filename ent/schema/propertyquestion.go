package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PropertyQuestion holds the schema definition for the PropertyQuestion
// entity: a buyer-asked question escalated to a supplier.
type PropertyQuestion struct {
	ent.Schema
}

// Fields of the PropertyQuestion.
func (PropertyQuestion) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("warehouse_id").
			Immutable(),
		field.String("engagement_id").
			Optional(),
		field.String("asked_by"),
		field.Text("question"),
		field.Time("routed_to_supplier_at").
			Optional().
			Nillable(),
		field.Time("supplier_deadline").
			Optional().
			Nillable(),
		field.Time("answered_at").
			Optional().
			Nillable(),
		field.Text("answer").
			Optional(),
		field.Enum("status").
			Values("pending", "routed", "answered", "expired").
			Default("pending"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the PropertyQuestion.
func (PropertyQuestion) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("warehouse", Warehouse.Type).
			Ref("property_questions").
			Field("warehouse_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the PropertyQuestion.
func (PropertyQuestion) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("warehouse_id"),
		index.Fields("status", "supplier_deadline"),
	}
}
