// Package config loads and validates tool configuration from YAML files
// with environment-variable overrides. It provides typed structs for the
// bench and demo binaries (Corpus, Search, Bench, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level tool configuration.
type Config struct {
	Corpus  CorpusConfig  `yaml:"corpus"`
	Search  SearchConfig  `yaml:"search"`
	Bench   BenchConfig   `yaml:"bench"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// CorpusConfig describes the input corpus for indexing runs. When Path is
// empty the tools generate a synthetic corpus of Documents lines.
type CorpusConfig struct {
	Path      string `yaml:"path"`
	Documents int    `yaml:"documents"`
	MaxLine   int    `yaml:"maxLine"`
}

// SearchConfig mirrors the engine's search knobs in file form.
type SearchConfig struct {
	MinOverlapRatio float64 `yaml:"minOverlapRatio"`
	EnableFuzzy     bool    `yaml:"enableFuzzy"`
	MaxEditDistance int     `yaml:"maxEditDistance"`
	PaddedTrigrams  bool    `yaml:"paddedTrigrams"`
	StripDiacritics bool    `yaml:"stripDiacritics"`
	DefaultLimit    int     `yaml:"defaultLimit"`
}

// BenchConfig controls measurement runs.
type BenchConfig struct {
	WarmupRuns  int           `yaml:"warmupRuns"`
	MeasureRuns int           `yaml:"measureRuns"`
	Concurrency int           `yaml:"concurrency"`
	Duration    time.Duration `yaml:"duration"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// defaultConfig returns a Config with defaults suitable for local runs.
func defaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Documents: 10000,
			MaxLine:   512,
		},
		Search: SearchConfig{
			MinOverlapRatio: 0.2,
			EnableFuzzy:     true,
			MaxEditDistance: 2,
			DefaultLimit:    10,
		},
		Bench: BenchConfig{
			WarmupRuns:  2,
			MeasureRuns: 5,
			Concurrency: 4,
			Duration:    10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads FD_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FD_CORPUS_PATH"); v != "" {
		cfg.Corpus.Path = v
	}
	if v := os.Getenv("FD_CORPUS_DOCUMENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Corpus.Documents = n
		}
	}
	if v := os.Getenv("FD_SEARCH_MIN_OVERLAP_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Search.MinOverlapRatio = f
		}
	}
	if v := os.Getenv("FD_SEARCH_ENABLE_FUZZY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Search.EnableFuzzy = b
		}
	}
	if v := os.Getenv("FD_SEARCH_MAX_EDIT_DISTANCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxEditDistance = n
		}
	}
	if v := os.Getenv("FD_SEARCH_PADDED_TRIGRAMS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Search.PaddedTrigrams = b
		}
	}
	if v := os.Getenv("FD_BENCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Bench.Concurrency = n
		}
	}
	if v := os.Getenv("FD_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FD_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("FD_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
