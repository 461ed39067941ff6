package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Population PopulationConfig `yaml:"population"`
	Hermes     HermesConfig     `yaml:"hermes"`
	Electre    ElectreConfig    `yaml:"electre"`
	Report     ReportConfig     `yaml:"report"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port               int    `yaml:"port"`
	MetricsPort        int    `yaml:"metrics_port"`
	AdminToken         string `yaml:"admin_token"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	URL     string `yaml:"url"`
	Dataset string `yaml:"dataset"`
}

// PopulationConfig points at a CSV reference population, used when no
// database is configured.
type PopulationConfig struct {
	CSVPath string `yaml:"csv_path"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type ElectreConfig struct {
	Weights   map[string]int `yaml:"weights"`
	Lambdas   []float64      `yaml:"lambdas"`
	Quantiles []float64      `yaml:"quantiles"`
	// DefaultProfiles overrides rows of the fallback profile table, π1 to π6
	// per criterion.
	DefaultProfiles map[string][]float64 `yaml:"default_profiles"`
}

type ReportConfig struct {
	Workers int    `yaml:"workers"`
	Locale  string `yaml:"locale"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ProfileTable returns the built-in fallback table with the configured rows
// applied over it.
func (c *Config) ProfileTable() map[string][]float64 {
	table := make(map[string][]float64, len(electre.DefaultProfileTable))
	for id, row := range electre.DefaultProfileTable {
		table[id] = row
	}
	for id, row := range c.Electre.DefaultProfiles {
		table[id] = row
	}
	return table
}

// Criteria builds the criterion set from the configured weights.
func (c *Config) Criteria() (electre.Criteria, error) {
	return electre.CriteriaFromWeights(electre.Weights(c.Electre.Weights))
}

// Validate checks the ELECTRE parameters. It does not touch TCP ports or
// URLs; those fail at startup.
func (c *Config) Validate() error {
	if err := electre.Weights(c.Electre.Weights).Validate(); err != nil {
		return err
	}
	if len(c.Electre.Lambdas) == 0 {
		return fmt.Errorf("electre.lambdas: at least one cut level required")
	}
	if err := electre.ValidateLambdas(c.Electre.Lambdas); err != nil {
		return err
	}
	if err := electre.ValidateQuantiles(c.Electre.Quantiles); err != nil {
		return err
	}
	known := make(map[string]bool)
	for _, id := range electre.CriterionIDs() {
		known[id] = true
	}
	for id, row := range c.Electre.DefaultProfiles {
		field := "electre.default_profiles." + id
		if !known[id] {
			return &electre.ConfigurationError{Field: field, Reason: "unknown criterion"}
		}
		if len(row) != electre.ProfileCount {
			return &electre.ConfigurationError{Field: field, Reason: fmt.Sprintf("expected %d values, got %d", electre.ProfileCount, len(row))}
		}
	}
	if c.Report.Workers < 0 {
		return fmt.Errorf("report.workers: must not be negative, got %d", c.Report.Workers)
	}
	return nil
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			RateLimitPerMinute: 120,
		},
		Database: DatabaseConfig{
			Dataset: "default",
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Electre: ElectreConfig{
			Weights:   electre.DefaultWeights(),
			Lambdas:   append([]float64(nil), electre.DefaultLambdas...),
			Quantiles: append([]float64(nil), electre.DefaultQuantiles...),
		},
		Report: ReportConfig{
			Locale: "fr",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// A weights block in the file replaces the defaults instead of
		// merging into them.
		cfg.Electre.Weights = nil
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if cfg.Electre.Weights == nil {
			cfg.Electre.Weights = electre.DefaultWeights()
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("NUTRISORT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("NUTRISORT_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("NUTRISORT_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("NUTRISORT_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("NUTRISORT_DATASET"); v != "" {
		cfg.Database.Dataset = v
	}
	if v := os.Getenv("NUTRISORT_POPULATION_CSV"); v != "" {
		cfg.Population.CSVPath = v
	}
	if v := os.Getenv("NUTRISORT_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("NUTRISORT_REPORT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Report.Workers = n
		}
	}
	if v := os.Getenv("NUTRISORT_LAMBDAS"); v != "" {
		if ls, err := parseFloats(v); err == nil {
			cfg.Electre.Lambdas = ls
		}
	}
	if v := os.Getenv("NUTRISORT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("NUTRISORT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// parseFloats reads a comma-separated list such as "0.6,0.7".
func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
