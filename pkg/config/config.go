// Package config loads the service's static, declarative configuration —
// MCDA weights, the use-type compatibility matrix, the engagement
// transition table, SMS reengagement tiers, scheduler cadences, and
// provider settings — once at startup, exactly the way the teacher's own
// pkg/config loads agent/chain/MCP registries: YAML on disk, environment
// overlay, typed registries handed to the rest of the service.
package config

// Config is the umbrella object returned by Initialize and threaded
// through the service. Nothing downstream re-reads a YAML file or an env
// var directly — every tunable lives here.
type Config struct {
	configDir string

	Server    ServerConfig
	LLM       LLMConfig
	Scheduler SchedulerConfig

	MCDAWeights       MCDAWeights
	UseTypeMatrix     UseTypeMatrix
	Transitions       TransitionTable
	ReengagementTiers ReengagementTiers
	Pricing           PricingConfig
	Geocode           GeocodeConfig
	SearchLimiter     SearchLimiterConfig
	DLA               DLAConfig
}

// ConfigDir returns the directory configuration was loaded from.
func (c *Config) ConfigDir() string { return c.configDir }

// ServerConfig configures the gin HTTP listener.
type ServerConfig struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

// LLMConfig configures the black-box LLM client (pkg/llm).
type LLMConfig struct {
	Provider       string `yaml:"provider"`
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // clamped to [30,90] by llm.NewClient
}

// SchedulerConfig carries the cron schedule string for each of the eleven
// background jobs, keyed by job name (§4.4).
type SchedulerConfig struct {
	Jobs map[string]string `yaml:"jobs"`
}

// PricingConfig holds the constants behind the buyer_rate formula
// (§4.1 budget row): margin and guarantee multipliers.
type PricingConfig struct {
	MarginMultiplier     float64 `yaml:"margin_multiplier"`     // 1.20
	GuaranteeMultiplier  float64 `yaml:"guarantee_multiplier"`  // 1.06
}

// GeocodeConfig sizes the process-local geocoding LRU cache and configures
// the upstream provider it fronts.
type GeocodeConfig struct {
	CacheMaxEntries int    `yaml:"cache_max_entries"` // ≤10,000 per spec.md §5
	ProviderBaseURL string `yaml:"provider_base_url"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// SearchLimiterConfig configures the property-search global rate limiter
// and negative-result TTL caches (§5).
type SearchLimiterConfig struct {
	SearchesPerMinute   int `yaml:"searches_per_minute"`    // 10
	NotFoundTTLMinutes  int `yaml:"not_found_ttl_minutes"`  // 5
	NotCommercialTTLMin int `yaml:"not_commercial_ttl_min"` // 60
}

// DLAConfig tunes the Demand-Led Activation outreach flow (§4.1.2).
type DLAConfig struct {
	TokenTTLHours          int     `yaml:"token_ttl_hours"`           // 48
	MaxOutreachesPerNeed   int     `yaml:"max_outreaches_per_need"`   // 5
	OutreachCooldownDays   int     `yaml:"outreach_cooldown_days"`    // 30
	BudgetBlendWeight      float64 `yaml:"budget_blend_weight"`       // 0.60
	MarketBlendWeight      float64 `yaml:"market_blend_weight"`       // 0.40
}
