// Package config loads analysis and server settings from the environment
// and an optional YAML file. Environment variables win over file values.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"autostat/app"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Server   ServerConfig   `yaml:"server"`
}

// AnalysisConfig holds the tuning knobs of the analysis pipeline.
type AnalysisConfig struct {
	Alpha              float64 `yaml:"alpha"`
	MaxCorrQuestions   int     `yaml:"max_corr_questions"`
	MaxCategoryLevels  int     `yaml:"max_category_levels"`
	NormalitySampleCap int     `yaml:"normality_sample_cap"`
	Seed               int64   `yaml:"seed"`
	Workers            int     `yaml:"workers"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

// Load reads configuration, starting from defaults, then the YAML file at
// path (skipped when empty or missing), then environment variables.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Analysis: AnalysisConfig{
			Alpha:              0.05,
			MaxCorrQuestions:   5,
			MaxCategoryLevels:  10,
			NormalitySampleCap: 500,
			Seed:               42,
			Workers:            1,
		},
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "release",
		},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("AUTOSTAT_ALPHA"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid AUTOSTAT_ALPHA %q: %w", v, err)
		}
		c.Analysis.Alpha = f
	}
	if v := os.Getenv("AUTOSTAT_MAX_CORR_QUESTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid AUTOSTAT_MAX_CORR_QUESTIONS %q: %w", v, err)
		}
		c.Analysis.MaxCorrQuestions = n
	}
	if v := os.Getenv("AUTOSTAT_MAX_CATEGORY_LEVELS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid AUTOSTAT_MAX_CATEGORY_LEVELS %q: %w", v, err)
		}
		c.Analysis.MaxCategoryLevels = n
	}
	if v := os.Getenv("AUTOSTAT_NORMALITY_SAMPLE_CAP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid AUTOSTAT_NORMALITY_SAMPLE_CAP %q: %w", v, err)
		}
		c.Analysis.NormalitySampleCap = n
	}
	if v := os.Getenv("AUTOSTAT_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid AUTOSTAT_SEED %q: %w", v, err)
		}
		c.Analysis.Seed = n
	}
	if v := os.Getenv("AUTOSTAT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid AUTOSTAT_WORKERS %q: %w", v, err)
		}
		c.Analysis.Workers = n
	}
	if v := os.Getenv("AUTOSTAT_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		c.Server.GinMode = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0, 1), got %v", c.Analysis.Alpha)
	}
	if c.Analysis.MaxCorrQuestions < 0 {
		return fmt.Errorf("max_corr_questions cannot be negative")
	}
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}

// Options converts the analysis section into pipeline options.
func (c *Config) Options() app.Options {
	return app.Options{
		Alpha:              c.Analysis.Alpha,
		MaxCorrQuestions:   c.Analysis.MaxCorrQuestions,
		MaxCategoryLevels:  c.Analysis.MaxCategoryLevels,
		NormalitySampleCap: c.Analysis.NormalitySampleCap,
		Seed:               c.Analysis.Seed,
		Workers:            c.Analysis.Workers,
	}
}
