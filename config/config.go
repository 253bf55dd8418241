// Package config loads run settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Data        DataConfig
	Bootstrap   BootstrapConfig
	Refine      RefineConfig
	Output      OutputConfig
}

// DataConfig describes the input file.
type DataConfig struct {
	Path       string
	DateColumn string
	Responses  []string
}

// BootstrapConfig holds bootstrap selection settings.
type BootstrapConfig struct {
	Repeats int
	Seed    int64
	Workers int
	Budget  time.Duration // 0 disables the time budget
}

// RefineConfig holds pruning and influence-filter settings.
type RefineConfig struct {
	Alpha           float64
	Drop            []string // fixed drop list; empty means drop what pruning flags
	CooksFactor     float64
	InfluencePasses int
	Collinear       string
}

// OutputConfig controls diagnostic artifacts.
type OutputConfig struct {
	Dir      string // empty disables artifacts
	Compress bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Data: DataConfig{
			Path:       getEnv("DATA_PATH", "hour.csv"),
			DateColumn: getEnv("DATE_COLUMN", "dteday"),
			Responses:  getEnvAsList("RESPONSES", []string{"casual", "registered"}),
		},
		Bootstrap: BootstrapConfig{
			Repeats: getEnvAsInt("BOOTSTRAP_REPEATS", 100),
			Seed:    int64(getEnvAsInt("BOOTSTRAP_SEED", 42)),
			Workers: getEnvAsInt("BOOTSTRAP_WORKERS", 1),
			Budget:  getEnvAsDuration("BOOTSTRAP_TIME_BUDGET", 0),
		},
		Refine: RefineConfig{
			Alpha:           getEnvAsFloat("SIGNIFICANCE_LEVEL", 0.05),
			Drop:            getEnvAsList("DROP_PREDICTORS", nil),
			CooksFactor:     getEnvAsFloat("COOKS_FACTOR", 4),
			InfluencePasses: getEnvAsInt("INFLUENCE_PASSES", 1),
			Collinear:       getEnv("COLLINEAR_PREDICTOR", "weekday"),
		},
		Output: OutputConfig{
			Dir:      getEnv("OUTPUT_DIR", ""),
			Compress: getEnvAsBool("COMPRESS_ARTIFACTS", false),
		},
	}

	// "none" disables the final collinear drop
	if strings.EqualFold(cfg.Refine.Collinear, "none") {
		cfg.Refine.Collinear = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot drive a run.
func (c *Config) Validate() error {
	switch {
	case c.Data.Path == "":
		return errors.New("config: DATA_PATH is empty")
	case len(c.Data.Responses) == 0:
		return errors.New("config: RESPONSES is empty")
	case c.Bootstrap.Repeats <= 0:
		return fmt.Errorf("config: BOOTSTRAP_REPEATS must be positive, got %d", c.Bootstrap.Repeats)
	case c.Bootstrap.Workers <= 0:
		return fmt.Errorf("config: BOOTSTRAP_WORKERS must be positive, got %d", c.Bootstrap.Workers)
	case c.Bootstrap.Budget < 0:
		return fmt.Errorf("config: BOOTSTRAP_TIME_BUDGET must not be negative, got %s", c.Bootstrap.Budget)
	case c.Refine.Alpha <= 0 || c.Refine.Alpha >= 1:
		return fmt.Errorf("config: SIGNIFICANCE_LEVEL must be in (0,1), got %g", c.Refine.Alpha)
	case c.Refine.CooksFactor <= 0:
		return fmt.Errorf("config: COOKS_FACTOR must be positive, got %g", c.Refine.CooksFactor)
	case c.Refine.InfluencePasses <= 0:
		return fmt.Errorf("config: INFLUENCE_PASSES must be positive, got %d", c.Refine.InfluencePasses)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated value, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
