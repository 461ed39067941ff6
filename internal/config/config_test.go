package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
)

var envVars = []string{
	"NUTRISORT_PORT", "NUTRISORT_METRICS_PORT", "NUTRISORT_ADMIN_TOKEN",
	"NUTRISORT_DATABASE_URL", "NUTRISORT_DATASET", "NUTRISORT_POPULATION_CSV",
	"NUTRISORT_HERMES_URL", "NUTRISORT_REPORT_WORKERS", "NUTRISORT_LAMBDAS",
	"NUTRISORT_LOG_LEVEL", "NUTRISORT_LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.RateLimitPerMinute != 120 {
		t.Errorf("expected rate limit 120, got %d", cfg.Server.RateLimitPerMinute)
	}
	if cfg.Hermes.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got %s", cfg.Hermes.URL)
	}
	if cfg.Database.Dataset != "default" {
		t.Errorf("expected dataset 'default', got '%s'", cfg.Database.Dataset)
	}
	if cfg.Report.Locale != "fr" {
		t.Errorf("expected locale 'fr', got '%s'", cfg.Report.Locale)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("expected info/json logging, got %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
	if !reflect.DeepEqual(cfg.Electre.Lambdas, []float64{0.6, 0.7}) {
		t.Errorf("expected lambdas [0.6 0.7], got %v", cfg.Electre.Lambdas)
	}
	if !reflect.DeepEqual(map[string]int(cfg.Electre.Weights), map[string]int(electre.DefaultWeights())) {
		t.Errorf("expected default weights, got %v", cfg.Electre.Weights)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	criteria, err := cfg.Criteria()
	if err != nil {
		t.Fatalf("Criteria: %v", err)
	}
	if criteria.TotalWeight() != 20 {
		t.Errorf("expected total weight 20, got %d", criteria.TotalWeight())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NUTRISORT_PORT", "9000")
	t.Setenv("NUTRISORT_METRICS_PORT", "9001")
	t.Setenv("NUTRISORT_ADMIN_TOKEN", "secret-token")
	t.Setenv("NUTRISORT_DATABASE_URL", "postgres://localhost/nutrisort_test")
	t.Setenv("NUTRISORT_DATASET", "openfoodfacts")
	t.Setenv("NUTRISORT_POPULATION_CSV", "/data/population.csv")
	t.Setenv("NUTRISORT_HERMES_URL", "nats://nats:4222")
	t.Setenv("NUTRISORT_REPORT_WORKERS", "8")
	t.Setenv("NUTRISORT_LAMBDAS", "0.55, 0.75")
	t.Setenv("NUTRISORT_LOG_LEVEL", "debug")
	t.Setenv("NUTRISORT_LOG_FORMAT", "text")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9001 {
		t.Errorf("expected metrics port 9001, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "secret-token" {
		t.Errorf("expected admin token 'secret-token', got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Database.URL != "postgres://localhost/nutrisort_test" {
		t.Errorf("expected database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Database.Dataset != "openfoodfacts" {
		t.Errorf("expected dataset, got '%s'", cfg.Database.Dataset)
	}
	if cfg.Population.CSVPath != "/data/population.csv" {
		t.Errorf("expected csv path, got '%s'", cfg.Population.CSVPath)
	}
	if cfg.Hermes.URL != "nats://nats:4222" {
		t.Errorf("expected hermes URL, got '%s'", cfg.Hermes.URL)
	}
	if cfg.Report.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Report.Workers)
	}
	if !reflect.DeepEqual(cfg.Electre.Lambdas, []float64{0.55, 0.75}) {
		t.Errorf("expected lambdas [0.55 0.75], got %v", cfg.Electre.Lambdas)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("expected debug/text logging, got %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("NUTRISORT_PORT", "not-a-port")
	t.Setenv("NUTRISORT_LAMBDAS", "0.6,abc")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8700 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
	if len(cfg.Electre.Lambdas) != 2 {
		t.Errorf("expected default lambdas, got %v", cfg.Electre.Lambdas)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nutrisort.yaml")
	data := `
server:
  port: 9100
electre:
  weights:
    energy: 1
    saturated_fat: 1
    sugar: 1
    sodium: 1
    protein: 1
    fiber: 1
    fruit_veg_nut_pct: 1
    additive_count: 1
  lambdas: [0.5]
report:
  locale: en
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected default metrics port to survive, got %d", cfg.Server.MetricsPort)
	}
	if electre.Weights(cfg.Electre.Weights).Sum() != 8 {
		t.Errorf("expected file weights to replace defaults, got %v", cfg.Electre.Weights)
	}
	if !reflect.DeepEqual(cfg.Electre.Lambdas, []float64{0.5}) {
		t.Errorf("expected lambdas [0.5], got %v", cfg.Electre.Lambdas)
	}
	if cfg.Report.Locale != "en" {
		t.Errorf("expected locale 'en', got '%s'", cfg.Report.Locale)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name   string
		mutate func(*Config)
		isErr  error
	}{
		{"zero weight", func(c *Config) { c.Electre.Weights[electre.Sugar] = 0 }, electre.ErrConfiguration},
		{"missing weight", func(c *Config) { delete(c.Electre.Weights, electre.Fiber) }, electre.ErrConfiguration},
		{"lambda above one", func(c *Config) { c.Electre.Lambdas = []float64{1.2} }, electre.ErrValidation},
		{"lambda zero", func(c *Config) { c.Electre.Lambdas = []float64{0} }, electre.ErrValidation},
		{"no lambdas", func(c *Config) { c.Electre.Lambdas = nil }, nil},
		{"unknown default profile", func(c *Config) {
			c.Electre.DefaultProfiles = map[string][]float64{"caffeine": {1, 2, 3, 4, 5, 6}}
		}, electre.ErrConfiguration},
		{"short default profile", func(c *Config) {
			c.Electre.DefaultProfiles = map[string][]float64{electre.Sugar: {10, 5}}
		}, electre.ErrConfiguration},
		{"duplicate lambdas", func(c *Config) { c.Electre.Lambdas = []float64{0.6, 0.6} }, electre.ErrValidation},
		{"five quantiles", func(c *Config) { c.Electre.Quantiles = c.Electre.Quantiles[:5] }, electre.ErrConfiguration},
		{"unsorted quantiles", func(c *Config) {
			c.Electre.Quantiles = []float64{0.2, 0.1, 0.4, 0.6, 0.8, 0.95}
		}, electre.ErrConfiguration},
		{"negative workers", func(c *Config) { c.Report.Workers = -1 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tt.isErr != nil && !errors.Is(err, tt.isErr) {
				t.Errorf("expected %v, got %v", tt.isErr, err)
			}
		})
	}
}

func TestProfileTableOverridesRows(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	row := []float64{30, 20, 12, 6, 3, 1}
	cfg.Electre.DefaultProfiles = map[string][]float64{electre.Sugar: row}

	table := cfg.ProfileTable()
	if !reflect.DeepEqual(table[electre.Sugar], row) {
		t.Errorf("expected sugar override %v, got %v", row, table[electre.Sugar])
	}
	if !reflect.DeepEqual(table[electre.Energy], electre.DefaultProfileTable[electre.Energy]) {
		t.Errorf("expected energy default row, got %v", table[electre.Energy])
	}
	if reflect.DeepEqual(electre.DefaultProfileTable[electre.Sugar], row) {
		t.Error("override must not modify the built-in table")
	}
}
