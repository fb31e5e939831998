package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// EngagementEvent holds the schema definition for the EngagementEvent
// entity: an append-only audit row, one per successful transition or
// scheduler side-effect, written in the same transaction as the mutation
// it records.
type EngagementEvent struct {
	ent.Schema
}

// Fields of the EngagementEvent.
func (EngagementEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("engagement_id").
			Immutable(),
		field.Enum("event_type").
			Values("transition", "reminder_sent", "admin_note", "lease_activated").
			Immutable(),
		field.String("from_status").
			Optional().
			Immutable(),
		field.String("to_status").
			Optional().
			Immutable(),
		field.Enum("actor").
			Values("buyer", "supplier", "system", "admin").
			Immutable(),
		field.String("actor_id").
			Optional().
			Immutable(),
		field.JSON("data", map[string]any{}).
			Optional().
			Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the EngagementEvent.
func (EngagementEvent) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("engagement", Engagement.Type).
			Ref("events").
			Field("engagement_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the EngagementEvent. The (engagement_id, event_type,
// created_at::date) composite backs the scheduler's idempotency checks.
func (EngagementEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("engagement_id", "event_type", "created_at"),
	}
}
