package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// EngagementAgreement holds the schema definition for the
// EngagementAgreement entity: the per-engagement dual-sign lease
// agreement.
type EngagementAgreement struct {
	ent.Schema
}

// Fields of the EngagementAgreement.
func (EngagementAgreement) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("engagement_id").
			Immutable(),
		field.Int("version"),
		field.Float("buyer_rate_per_sqft"),
		field.Float("supplier_rate_per_sqft"),
		field.JSON("terms_snapshot", map[string]any{}),
		field.Time("buyer_signed_at").
			Optional().
			Nillable(),
		field.Time("supplier_signed_at").
			Optional().
			Nillable(),
		field.Time("expires_at"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the EngagementAgreement.
func (EngagementAgreement) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("engagement", Engagement.Type).
			Ref("agreements").
			Field("engagement_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the EngagementAgreement.
func (EngagementAgreement) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("engagement_id"),
	}
}
