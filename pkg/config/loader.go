package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// clearinghouseYAMLConfig mirrors config/clearinghouse.yaml on disk. Every
// field is optional — anything unset falls back to its Default*() value.
type clearinghouseYAMLConfig struct {
	Server            *ServerConfig        `yaml:"server"`
	LLM               *LLMConfig           `yaml:"llm"`
	Scheduler         *SchedulerConfig     `yaml:"scheduler"`
	MCDAWeights       *MCDAWeights         `yaml:"mcda_weights"`
	UseTypeMatrix     *UseTypeMatrix       `yaml:"use_type_matrix"`
	Transitions       *TransitionTable     `yaml:"transitions"`
	ReengagementTiers *ReengagementTiers   `yaml:"reengagement_tiers"`
	Pricing           *PricingConfig       `yaml:"pricing"`
	Geocode           *GeocodeConfig       `yaml:"geocode"`
	SearchLimiter     *SearchLimiterConfig `yaml:"search_limiter"`
	DLA               *DLAConfig           `yaml:"dla"`
}

// Initialize loads, defaults, and validates configuration from configDir's
// clearinghouse.yaml, mirroring the teacher's Initialize(ctx, configDir)
// entrypoint shape.
func Initialize(configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("initializing configuration")

	raw, err := load(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg := applyDefaults(raw)
	cfg.configDir = configDir

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("configuration initialized",
		"transition_rules", len(cfg.Transitions.Rules),
		"scheduler_jobs", len(cfg.Scheduler.Jobs))
	return cfg, nil
}

func load(configDir string) (*clearinghouseYAMLConfig, error) {
	path := filepath.Join(configDir, "clearinghouse.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No file on disk is not fatal — every section has a default.
			return &clearinghouseYAMLConfig{}, nil
		}
		return nil, err
	}

	var raw clearinghouseYAMLConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return &raw, nil
}

func applyDefaults(raw *clearinghouseYAMLConfig) *Config {
	cfg := &Config{
		Server:            DefaultServerConfig(),
		LLM:               DefaultLLMConfig(),
		Scheduler:         DefaultSchedulerConfig(),
		MCDAWeights:       DefaultMCDAWeights(),
		UseTypeMatrix:     DefaultUseTypeMatrix(),
		Transitions:       DefaultTransitionTable(),
		ReengagementTiers: DefaultReengagementTiers(),
		Pricing:           DefaultPricingConfig(),
		Geocode:           DefaultGeocodeConfig(),
		SearchLimiter:     DefaultSearchLimiterConfig(),
		DLA:               DefaultDLAConfig(),
	}

	if raw.Server != nil {
		cfg.Server = *raw.Server
	}
	if raw.LLM != nil {
		cfg.LLM = *raw.LLM
	}
	if raw.Scheduler != nil && len(raw.Scheduler.Jobs) > 0 {
		cfg.Scheduler = *raw.Scheduler
	}
	if raw.MCDAWeights != nil {
		cfg.MCDAWeights = *raw.MCDAWeights
	}
	if raw.UseTypeMatrix != nil {
		cfg.UseTypeMatrix = *raw.UseTypeMatrix
	}
	if raw.Transitions != nil && len(raw.Transitions.Rules) > 0 {
		cfg.Transitions = *raw.Transitions
	}
	if raw.ReengagementTiers != nil && len(raw.ReengagementTiers.Tiers) > 0 {
		cfg.ReengagementTiers = *raw.ReengagementTiers
	}
	if raw.Pricing != nil {
		cfg.Pricing = *raw.Pricing
	}
	if raw.Geocode != nil {
		cfg.Geocode = *raw.Geocode
	}
	if raw.SearchLimiter != nil {
		cfg.SearchLimiter = *raw.SearchLimiter
	}
	if raw.DLA != nil {
		cfg.DLA = *raw.DLA
	}

	applyEnvOverrides(cfg)
	return cfg
}

// applyEnvOverrides lets a deployment override the handful of settings
// that commonly vary per environment without editing YAML, mirroring the
// teacher's PORT/GIN_MODE env-fallback idiom in cmd/tarsy/main.go.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.Server.GinMode = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
}

func validate(cfg *Config) error {
	if sum := cfg.MCDAWeights.Sum(); sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("%w: mcda_weights must sum to 1.0, got %.3f", ErrInvalidConfig, sum)
	}
	if len(cfg.Transitions.Rules) == 0 {
		return fmt.Errorf("%w: transition table must not be empty", ErrInvalidConfig)
	}
	if cfg.Geocode.CacheMaxEntries <= 0 || cfg.Geocode.CacheMaxEntries > 10000 {
		return fmt.Errorf("%w: geocode cache_max_entries must be in (0, 10000]", ErrInvalidConfig)
	}
	if cfg.SearchLimiter.SearchesPerMinute <= 0 {
		return fmt.Errorf("%w: search_limiter searches_per_minute must be > 0", ErrInvalidConfig)
	}
	return nil
}
