package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/model"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local/share/itemquery/catalog.db"), cfg.DBPath)
	assert.InDelta(t, 0.7, cfg.FuzzyThreshold, 0.0001)
	assert.InDelta(t, 0.7, cfg.ClassThreshold, 0.0001)
	assert.Equal(t, 4096, cfg.CacheSize)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.False(t, cfg.UsesFiles())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr error
	}{
		{"filters without stats", map[string]any{KeyFiltersPath: "filters.json"}, common.ErrInvalidConfig},
		{"no catalog source", map[string]any{KeyDBPath: ""}, common.ErrMissingConfig},
		{"fuzzy threshold zero", map[string]any{KeyFuzzyThreshold: 0}, common.ErrInvalidConfig},
		{"class threshold above one", map[string]any{KeyClassThreshold: 1.5}, common.ErrInvalidConfig},
		{"negative cache", map[string]any{KeyCacheSize: -1}, common.ErrInvalidConfig},
		{"keep zero snapshots", map[string]any{KeyKeepSnapshots: 0}, common.ErrInvalidConfig},
		{"bad level", map[string]any{KeyLogLevel: "loud"}, common.ErrInvalidConfig},
		{"bad format", map[string]any{KeyLogFormat: "xml"}, common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_FromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog:
  stats_path: $ITEMQUERY_TEST_DIR/stats.json
  filters_path: $ITEMQUERY_TEST_DIR/filters.json
matcher:
  fuzzy_threshold: 0.8
`), 0600))
	t.Setenv("ITEMQUERY_TEST_DIR", dir)
	t.Setenv("ITEMQUERY_MATCHER_CACHE_SIZE", "16")

	v := newViper()
	v.SetConfigFile(path)
	v.SetEnvPrefix("ITEMQUERY")
	v.SetEnvKeyReplacer(EnvKeyReplacer())
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "stats.json"), cfg.StatsPath)
	assert.Equal(t, filepath.Join(dir, "filters.json"), cfg.FiltersPath)
	assert.InDelta(t, 0.8, cfg.FuzzyThreshold, 0.0001)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.True(t, cfg.UsesFiles())
}

func TestConfig_Engine(t *testing.T) {
	dir := t.TempDir()
	policyPath := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(policyPath, []byte("stat_categories:\n  rune: true\n"), 0600))

	v := newViper()
	v.Set(KeyPolicyPath, policyPath)
	v.Set(KeyCacheSize, 8)
	cfg, err := Load(v)
	require.NoError(t, err)

	ec, err := cfg.Engine()
	require.NoError(t, err)
	assert.Equal(t, 8, ec.CacheSize)
	assert.True(t, ec.Policy.StatEnabled(model.ModRune))
	assert.True(t, ec.Policy.StatEnabled(model.ModExplicit), "defaults survive a partial policy file")

	v.Set(KeyPolicyPath, filepath.Join(dir, "missing.yaml"))
	cfg, err = Load(v)
	require.NoError(t, err)
	_, err = cfg.Engine()
	require.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("ITEMQUERY_X", "/opt/x")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "a/b"), ExpandPath("~/a/b"))
	assert.Equal(t, "/opt/x/y", ExpandPath("$ITEMQUERY_X/y"))
}
