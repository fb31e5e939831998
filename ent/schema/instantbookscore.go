package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// InstantBookScore holds the schema definition for the InstantBookScore
// entity: the 5-factor subscore row persisted alongside a Match (§4.1
// step 4).
type InstantBookScore struct {
	ent.Schema
}

// Fields of the InstantBookScore.
func (InstantBookScore) Fields() []ent.Field {
	return []ent.Field{
		field.String("match_id").
			Unique().
			Immutable(),
		field.Int("truth_core_completeness"),
		field.Int("contextual_memory_depth"),
		field.Int("supplier_trust_level"),
		field.Int("match_specificity"),
		field.Int("feature_alignment"),
		field.Time("computed_at").
			Default(time.Now),
	}
}

// Edges of the InstantBookScore.
func (InstantBookScore) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("match", Match.Type).
			Ref("instant_book_score").
			Field("match_id").
			Unique().
			Required().
			Immutable(),
	}
}
