package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "DATA_PATH", "DATE_COLUMN", "RESPONSES",
		"BOOTSTRAP_REPEATS", "BOOTSTRAP_SEED", "BOOTSTRAP_WORKERS", "BOOTSTRAP_TIME_BUDGET",
		"SIGNIFICANCE_LEVEL", "DROP_PREDICTORS", "COOKS_FACTOR", "INFLUENCE_PASSES",
		"COLLINEAR_PREDICTOR", "OUTPUT_DIR", "COMPRESS_ARTIFACTS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "hour.csv", cfg.Data.Path)
	assert.Equal(t, "dteday", cfg.Data.DateColumn)
	assert.Equal(t, []string{"casual", "registered"}, cfg.Data.Responses)
	assert.Equal(t, 100, cfg.Bootstrap.Repeats)
	assert.Equal(t, int64(42), cfg.Bootstrap.Seed)
	assert.Equal(t, 1, cfg.Bootstrap.Workers)
	assert.Zero(t, cfg.Bootstrap.Budget)
	assert.InDelta(t, 0.05, cfg.Refine.Alpha, 1e-12)
	assert.Empty(t, cfg.Refine.Drop)
	assert.InDelta(t, 4.0, cfg.Refine.CooksFactor, 1e-12)
	assert.Equal(t, 1, cfg.Refine.InfluencePasses)
	assert.Equal(t, "weekday", cfg.Refine.Collinear)
	assert.Empty(t, cfg.Output.Dir)
	assert.False(t, cfg.Output.Compress)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOOTSTRAP_REPEATS", "250")
	t.Setenv("BOOTSTRAP_WORKERS", "8")
	t.Setenv("BOOTSTRAP_TIME_BUDGET", "90s")
	t.Setenv("DROP_PREDICTORS", "instant, yr ,mnth,,hr,windspeed")
	t.Setenv("COMPRESS_ARTIFACTS", "true")
	t.Setenv("RESPONSES", "registered")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Bootstrap.Repeats)
	assert.Equal(t, 8, cfg.Bootstrap.Workers)
	assert.Equal(t, 90*time.Second, cfg.Bootstrap.Budget)
	assert.Equal(t, []string{"instant", "yr", "mnth", "hr", "windspeed"}, cfg.Refine.Drop)
	assert.True(t, cfg.Output.Compress)
	assert.Equal(t, []string{"registered"}, cfg.Data.Responses)
}

func TestLoadCollinearNone(t *testing.T) {
	t.Setenv("COLLINEAR_PREDICTOR", "none")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Refine.Collinear)
}

func TestLoadInvalidFallsBackToDefault(t *testing.T) {
	t.Setenv("BOOTSTRAP_SEED", "not-a-number")
	t.Setenv("SIGNIFICANCE_LEVEL", "abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Bootstrap.Seed)
	assert.InDelta(t, 0.05, cfg.Refine.Alpha, 1e-12)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero repeats", func(c *Config) { c.Bootstrap.Repeats = 0 }},
		{"zero workers", func(c *Config) { c.Bootstrap.Workers = 0 }},
		{"negative budget", func(c *Config) { c.Bootstrap.Budget = -time.Second }},
		{"alpha too large", func(c *Config) { c.Refine.Alpha = 1 }},
		{"alpha zero", func(c *Config) { c.Refine.Alpha = 0 }},
		{"factor zero", func(c *Config) { c.Refine.CooksFactor = 0 }},
		{"passes zero", func(c *Config) { c.Refine.InfluencePasses = 0 }},
		{"no responses", func(c *Config) { c.Data.Responses = nil }},
		{"no path", func(c *Config) { c.Data.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, validConfig().Validate())
}

func validConfig() *Config {
	return &Config{
		Data:      DataConfig{Path: "hour.csv", Responses: []string{"casual"}},
		Bootstrap: BootstrapConfig{Repeats: 10, Workers: 1},
		Refine:    RefineConfig{Alpha: 0.05, CooksFactor: 4, InfluencePasses: 1},
	}
}
