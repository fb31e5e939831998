package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// MarketRateCache holds the schema definition for the MarketRateCache
// entity: the last-known NNN rate range for a zipcode, 30-day TTL.
type MarketRateCache struct {
	ent.Schema
}

// Fields of the MarketRateCache.
func (MarketRateCache) Fields() []ent.Field {
	return []ent.Field{
		field.String("zipcode").
			Immutable(),
		field.Enum("use_type").
			Values("storage", "office", "storage_office", "ecommerce_fulfillment", "cold_storage", "food_grade", "manufacturing_light", "general").
			Immutable(),
		field.Float("rate_low"),
		field.Float("rate_high"),
		field.Int("sample_size"),
		field.Time("computed_at").
			Default(time.Now),
		field.Time("expires_at"),
	}
}

// Indexes of the MarketRateCache. Composite primary key is (zipcode,
// use_type); enforced at the migration layer since ent schema-as-docs
// does not run the generator here.
func (MarketRateCache) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("zipcode", "use_type").
			Unique(),
	}
}
