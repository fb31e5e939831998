package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DLAToken holds the schema definition for the DLAToken entity: the
// opaque 32-char hex token driving the supplier-facing demand-led-
// activation flow (§4.1.2).
type DLAToken struct {
	ent.Schema
}

// Fields of the DLAToken.
func (DLAToken) Fields() []ent.Field {
	return []ent.Field{
		field.String("token").
			Unique().
			Immutable(),
		field.String("warehouse_id").
			Immutable(),
		field.String("buyer_need_id").
			Immutable(),
		field.Enum("status").
			Values("pending", "interested", "rate_decided", "confirmed", "declined", "expired").
			Default("pending"),
		field.Float("suggested_rate_per_sqft"),
		field.Float("confirmed_rate_per_sqft").
			Optional().
			Nillable(),
		field.Time("expires_at"),
		field.Time("confirmed_at").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Indexes of the DLAToken. The (warehouse_id, buyer_need_id) composite and
// the separate status index back the 5-outreach cap and the
// pending/interested dedupe rule.
func (DLAToken) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("warehouse_id", "buyer_need_id"),
		index.Fields("status"),
	}
}
