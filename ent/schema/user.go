package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// User holds the schema definition for the User entity. Authenticates via
// a verified JWT bearer token; company_role is a company-scoped
// permission, distinct from the platform-staff admin override used by the
// engagement state machine.
type User struct {
	ent.Schema
}

// Fields of the User.
func (User) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("company_id"),
		field.String("email").
			Unique(),
		field.String("password_hash").
			Sensitive(),
		field.Enum("role").
			Values("member", "admin").
			Default("member"),
		field.Bool("is_platform_admin").
			Default(false).
			Comment("Grants the state machine's Actor=admin override; not the same as company_role=admin"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the User.
func (User) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("company", Company.Type).
			Ref("users").
			Field("company_id").
			Unique().
			Required(),
	}
}

// Indexes of the User.
func (User) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("company_id"),
	}
}
