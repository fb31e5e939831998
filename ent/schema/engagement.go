package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Engagement holds the schema definition for the Engagement entity: the
// central lifecycle object bridging a Match to an active lease (§4.2).
type Engagement struct {
	ent.Schema
}

// Fields of the Engagement.
func (Engagement) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("match_id").
			Unique().
			Immutable(),
		field.String("buyer_need_id").
			Immutable(),
		field.String("warehouse_id").
			Immutable(),
		field.Enum("status").
			Values(
				"deal_ping_sent", "deal_ping_accepted", "deal_ping_declined", "deal_ping_expired",
				"matched", "buyer_reviewing", "buyer_accepted", "contact_captured", "account_created",
				"guarantee_signed", "address_revealed", "tour_requested", "tour_confirmed",
				"tour_rescheduled", "tour_completed", "instant_book_requested", "instant_book_confirmed",
				"buyer_confirmed", "agreement_sent", "agreement_signed", "onboarding", "active",
				"completed", "declined_by_buyer", "declined_by_supplier", "expired", "cancelled",
			).
			Default("matched"),
		field.Enum("path").
			Values("tour", "instant_book").
			Optional(),
		field.Int("tour_reschedule_count").
			Default(0),
		field.Bool("admin_flagged").
			Default(false),
		field.Float("supplier_rate_per_sqft"),
		field.Float("buyer_rate_per_sqft"),
		field.Bool("insurance_uploaded").
			Default(false),
		field.Bool("company_docs_uploaded").
			Default(false),
		field.Bool("payment_method_added").
			Default(false),
		field.String("decline_reason").
			Optional(),
		field.String("cancel_reason").
			Optional(),
		field.Time("deal_ping_sent_at").Optional().Nillable(),
		field.Time("deal_ping_expires_at").Optional().Nillable(),
		field.Time("tour_requested_at").Optional().Nillable(),
		field.Time("tour_confirmed_at").Optional().Nillable(),
		field.Time("tour_completed_at").Optional().Nillable(),
		field.Time("guarantee_signed_at").Optional().Nillable(),
		field.Time("address_revealed_at").Optional().Nillable(),
		field.Time("agreement_sent_at").Optional().Nillable(),
		field.Time("agreement_signed_at").Optional().Nillable(),
		field.Time("lease_start_date").Optional().Nillable(),
		field.Time("lease_end_date").Optional().Nillable(),
		field.Int("version").
			Default(0).
			Comment("optimistic-concurrency guard, bumped every transition"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the Engagement.
func (Engagement) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("match", Match.Type).
			Ref("engagement").
			Field("match_id").
			Unique().
			Required().
			Immutable(),
		edge.To("events", EngagementEvent.Type),
		edge.To("agreements", EngagementAgreement.Type),
		edge.To("payment_records", PaymentRecord.Type),
	}
}

// Indexes of the Engagement.
func (Engagement) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("status"),
		index.Fields("warehouse_id"),
		index.Fields("buyer_need_id"),
	}
}
