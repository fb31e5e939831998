package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PaymentRecord holds the schema definition for the PaymentRecord entity:
// one generated, idempotent billing obligation per engagement per billing
// period.
type PaymentRecord struct {
	ent.Schema
}

// Fields of the PaymentRecord.
func (PaymentRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("engagement_id").
			Immutable(),
		field.Time("period_start").
			Immutable(),
		field.Time("period_end").
			Immutable(),
		field.Float("buyer_amount"),
		field.Float("supplier_amount"),
		field.Float("wex_amount").
			Comment("buyer_amount - supplier_amount"),
		field.Enum("buyer_status").
			Values("upcoming", "invoiced", "paid", "failed").
			Default("upcoming"),
		field.Enum("supplier_status").
			Values("upcoming", "invoiced", "paid", "failed").
			Default("upcoming"),
		field.Time("due_at"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the PaymentRecord.
func (PaymentRecord) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("engagement", Engagement.Type).
			Ref("payment_records").
			Field("engagement_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the PaymentRecord. (engagement_id, period_start) is unique
// and is the scheduler's idempotency key for payment_generation.
func (PaymentRecord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("engagement_id", "period_start").
			Unique(),
	}
}
