package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SupplierAgreement holds the schema definition for the SupplierAgreement
// entity: the one-time network-membership agreement signed on activation.
type SupplierAgreement struct {
	ent.Schema
}

// Fields of the SupplierAgreement.
func (SupplierAgreement) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("warehouse_id").
			Immutable(),
		field.String("company_id").
			Immutable(),
		field.String("version"),
		field.JSON("terms_snapshot", map[string]any{}),
		field.Time("signed_at"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the SupplierAgreement.
func (SupplierAgreement) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("warehouse", Warehouse.Type).
			Ref("supplier_agreements").
			Field("warehouse_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the SupplierAgreement.
func (SupplierAgreement) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("warehouse_id"),
	}
}
