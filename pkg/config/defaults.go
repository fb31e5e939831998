package config

// DefaultServerConfig returns sane gin defaults for local development.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{Port: "8080", GinMode: "release"}
}

// DefaultLLMConfig returns the black-box LLM client defaults. BaseURL is
// intentionally empty — pkg/llm refuses to dial an unconfigured provider
// and degrades immediately, matching the "black-box generator with a
// defined failure mode" contract in spec.md §1.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Provider:       "default",
		BaseURL:        "",
		APIKeyEnv:      "LLM_API_KEY",
		TimeoutSeconds: 60,
	}
}

// DefaultSchedulerConfig gives each of the eleven background jobs (§4.4) its
// own cron schedule string.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{Jobs: map[string]string{
		"deal_ping_deadline":    "*/15 * * * *",
		"general_deadline":      "*/15 * * * *",
		"tour_reminders":        "0 6 * * *",
		"post_tour_follow_up":   "0 * * * *",
		"qa_supplier_deadline":  "0 * * * *",
		"qa_knowledge_backfill": "30 * * * *",
		"payment_generation":    "0 0 * * *",
		"payment_reminders":     "0 9 * * *",
		"stale_engagement_flag": "0 8 * * *",
		"auto_activate_leases":  "0 0 * * *",
		"renewal_prompts":       "0 9 * * *",
	}}
}

// DefaultPricingConfig returns the margin/guarantee multipliers from
// spec.md §4.1's budget row.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{MarginMultiplier: 1.20, GuaranteeMultiplier: 1.06}
}

// DefaultGeocodeConfig caps the LRU at the spec.md §5 ceiling.
func DefaultGeocodeConfig() GeocodeConfig {
	return GeocodeConfig{
		CacheMaxEntries: 10000,
		ProviderBaseURL: "https://geocoding.geo.census.gov/geocoder",
		TimeoutSeconds:  10,
	}
}

// DefaultSearchLimiterConfig mirrors spec.md §5's rate-limit figures.
func DefaultSearchLimiterConfig() SearchLimiterConfig {
	return SearchLimiterConfig{
		SearchesPerMinute:   10,
		NotFoundTTLMinutes:  5,
		NotCommercialTTLMin: 60,
	}
}

// DefaultDLAConfig mirrors spec.md §4.1.2's demand-led-activation figures:
// a 48-hour token TTL, a 5-outreach cap per buyer need, a 30-day cooldown
// before the same warehouse can be re-contacted for a different need, and
// the 60/40 budget/market blend behind the suggested rate.
func DefaultDLAConfig() DLAConfig {
	return DLAConfig{
		TokenTTLHours:        48,
		MaxOutreachesPerNeed: 5,
		OutreachCooldownDays: 30,
		BudgetBlendWeight:    0.60,
		MarketBlendWeight:    0.40,
	}
}
