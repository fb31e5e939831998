package config

import "github.com/wex-clearinghouse/core/pkg/models"

// UseTypeMatrix is the config-as-data form of §4.1.1: capability sets per
// ActivityTier and need sets per UseType. Loaded once at startup; pkg/usetype
// only contains the scoring function, never the table itself.
type UseTypeMatrix struct {
	Capabilities map[models.ActivityTier][]string `yaml:"capabilities"`
	Needs        map[models.UseType][]string       `yaml:"needs"`
}

// DefaultUseTypeMatrix is the matrix verbatim from spec.md §4.1.1, used
// when no override file is present.
func DefaultUseTypeMatrix() UseTypeMatrix {
	return UseTypeMatrix{
		Capabilities: map[models.ActivityTier][]string{
			models.TierStorageOnly:          {"storage"},
			models.TierStorageOffice:        {"storage", "office"},
			models.TierStorageLightAssembly: {"storage", "light_assembly", "ecommerce_fulfillment"},
			models.TierColdStorage:          {"storage", "cold_storage", "food_grade"},
		},
		Needs: map[models.UseType][]string{
			models.UseTypeStorage:              {"storage"},
			models.UseTypeOffice:                {"office"},
			models.UseTypeStorageOffice:         {"storage", "office"},
			models.UseTypeEcommerceFulfillment:  {"storage", "light_assembly"},
			models.UseTypeColdStorage:           {"cold_storage"},
			models.UseTypeFoodGrade:             {"cold_storage", "food_grade"},
			models.UseTypeManufacturingLight:    {"light_assembly"},
			models.UseTypeGeneral:               {"storage"},
		},
	}
}

// MCDAWeights is the config-as-data form of the six-dimension weight table
// (§4.1 step 2). Weights must sum to 1.0 — enforced by validate().
type MCDAWeights struct {
	Location float64 `yaml:"location"`
	Size     float64 `yaml:"size"`
	UseType  float64 `yaml:"use_type"`
	Feature  float64 `yaml:"feature"`
	Timing   float64 `yaml:"timing"`
	Budget   float64 `yaml:"budget"`
}

// DefaultMCDAWeights is the weight table verbatim from spec.md §4.1.
func DefaultMCDAWeights() MCDAWeights {
	return MCDAWeights{
		Location: 0.20,
		Size:     0.15,
		UseType:  0.15,
		Feature:  0.20,
		Timing:   0.10,
		Budget:   0.20,
	}
}

// Sum returns the total weight, used by validation to catch a
// misconfigured weight table before it silently skews every composite
// score.
func (w MCDAWeights) Sum() float64 {
	return w.Location + w.Size + w.UseType + w.Feature + w.Timing + w.Budget
}
