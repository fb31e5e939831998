package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SMSConversationState holds the schema definition for the
// SMSConversationState entity: the per-phone-number conversation record
// the orchestrator's agents read and mutate (§4.3).
type SMSConversationState struct {
	ent.Schema
}

// Fields of the SMSConversationState.
func (SMSConversationState) Fields() []ent.Field {
	return []ent.Field{
		field.String("phone").
			Unique().
			Immutable(),
		field.Enum("phase").
			Values(
				"INTAKE", "QUALIFYING", "PRESENTING", "PROPERTY_FOCUSED", "AWAITING_ANSWER",
				"COLLECTING_INFO", "COMMITMENT", "GUARANTEE_PENDING", "TOUR_SCHEDULING",
			).
			Default("INTAKE"),
		field.Int("turn").
			Default(0),
		field.JSON("criteria", map[string]any{}),
		field.Strings("presented_match_ids").
			Optional(),
		field.String("focused_match_id").
			Optional(),
		field.String("renter_first_name").
			Optional(),
		field.String("renter_last_name").
			Optional(),
		field.String("buyer_email").
			Optional(),
		field.String("engagement_id").
			Optional(),
		field.String("guarantee_link_token").
			Optional(),
		field.String("search_session_token").
			Optional(),
		field.Time("search_session_expires_at").
			Optional().
			Nillable(),
		field.Enum("name_status").
			Values("unknown", "requested", "captured").
			Default("unknown"),
		field.Int("name_requested_at_turn").
			Default(0),
		field.Time("next_reengagement_at").
			Optional().
			Nillable(),
		field.Int("reengage_attempt").
			Default(0),
		field.JSON("transcript", []map[string]any{}),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Indexes of the SMSConversationState.
func (SMSConversationState) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("next_reengagement_at"),
	}
}
