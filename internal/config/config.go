// Package config provides configuration utilities for the application.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/Veraticus/itemquery/internal/classification"
	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/engine"
	"github.com/Veraticus/itemquery/internal/pattern"
	"github.com/Veraticus/itemquery/internal/policy"
)

// Configuration keys.
const (
	KeyStatsPath      = "catalog.stats_path"
	KeyFiltersPath    = "catalog.filters_path"
	KeyDBPath         = "catalog.db_path"
	KeyKeepSnapshots  = "catalog.keep_snapshots"
	KeyPolicyPath     = "policy.path"
	KeyFuzzyThreshold = "matcher.fuzzy_threshold"
	KeyCacheSize      = "matcher.cache_size"
	KeyClassThreshold = "classifier.threshold"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
)

// Config is the validated application configuration.
type Config struct {
	StatsPath      string
	FiltersPath    string
	DBPath         string
	PolicyPath     string
	LogLevel       string
	LogFormat      string
	FuzzyThreshold float64
	ClassThreshold float64
	CacheSize      int
	KeepSnapshots  int
}

// SetDefaults registers default values for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDBPath, "~/.local/share/itemquery/catalog.db")
	v.SetDefault(KeyKeepSnapshots, 3)
	v.SetDefault(KeyFuzzyThreshold, pattern.DefaultFuzzyThreshold)
	v.SetDefault(KeyCacheSize, pattern.DefaultCacheSize)
	v.SetDefault(KeyClassThreshold, classification.DefaultThreshold)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads the configuration from v, expands paths and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		StatsPath:      ExpandPath(v.GetString(KeyStatsPath)),
		FiltersPath:    ExpandPath(v.GetString(KeyFiltersPath)),
		DBPath:         ExpandPath(v.GetString(KeyDBPath)),
		PolicyPath:     ExpandPath(v.GetString(KeyPolicyPath)),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
		FuzzyThreshold: v.GetFloat64(KeyFuzzyThreshold),
		ClassThreshold: v.GetFloat64(KeyClassThreshold),
		CacheSize:      v.GetInt(KeyCacheSize),
		KeepSnapshots:  v.GetInt(KeyKeepSnapshots),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and that catalog sources are usable.
func (c *Config) Validate() error {
	if c.FiltersPath != "" && c.StatsPath == "" {
		return fmt.Errorf("%w: %s needs %s", common.ErrInvalidConfig, KeyFiltersPath, KeyStatsPath)
	}
	if c.StatsPath == "" && c.DBPath == "" {
		return fmt.Errorf("%w: set %s or %s", common.ErrMissingConfig, KeyStatsPath, KeyDBPath)
	}
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("%w: %s must be in (0, 1], got %v", common.ErrInvalidConfig, KeyFuzzyThreshold, c.FuzzyThreshold)
	}
	if c.ClassThreshold <= 0 || c.ClassThreshold > 1 {
		return fmt.Errorf("%w: %s must be in (0, 1], got %v", common.ErrInvalidConfig, KeyClassThreshold, c.ClassThreshold)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: %s must not be negative", common.ErrInvalidConfig, KeyCacheSize)
	}
	if c.KeepSnapshots < 1 {
		return fmt.Errorf("%w: %s must be at least 1", common.ErrInvalidConfig, KeyKeepSnapshots)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %s must be console or json, got %q", common.ErrInvalidConfig, KeyLogFormat, c.LogFormat)
	}
	return nil
}

// UsesFiles reports whether the catalog is read from source files rather than
// the snapshot database.
func (c *Config) UsesFiles() bool {
	return c.StatsPath != ""
}

// Engine builds the engine configuration, loading the policy file if one is set.
func (c *Config) Engine() (engine.Config, error) {
	cfg := engine.DefaultConfig()
	cfg.FuzzyThreshold = c.FuzzyThreshold
	cfg.ClassThreshold = c.ClassThreshold
	cfg.CacheSize = c.CacheSize

	if c.PolicyPath != "" {
		pol, err := policy.Load(c.PolicyPath)
		if err != nil {
			return engine.Config{}, err
		}
		cfg.Policy = pol
	}
	return cfg, nil
}
