package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PropertyKnowledgeEntry holds the schema definition for the
// PropertyKnowledgeEntry entity: a reusable supplier-sourced answer keyed
// by warehouse + normalized question topic.
type PropertyKnowledgeEntry struct {
	ent.Schema
}

// Fields of the PropertyKnowledgeEntry.
func (PropertyKnowledgeEntry) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("warehouse_id").
			Immutable(),
		field.String("topic"),
		field.Text("answer"),
		field.String("source_question_id").
			Optional(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the PropertyKnowledgeEntry.
func (PropertyKnowledgeEntry) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("warehouse", Warehouse.Type).
			Ref("property_knowledge_entries").
			Field("warehouse_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the PropertyKnowledgeEntry. (warehouse_id, topic) is unique.
func (PropertyKnowledgeEntry) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("warehouse_id", "topic").
			Unique(),
	}
}
