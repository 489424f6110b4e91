// Package config loads the engine's YAML configuration. Every field has a
// working default, so a missing file or an empty document still yields a
// runnable setup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/itgov-review/rfpcheck/internal/checklist"
	"github.com/itgov-review/rfpcheck/internal/llm"
	"github.com/itgov-review/rfpcheck/internal/reconcile"
)

type Config struct {
	// Model is the Anthropic model id used for judgment calls.
	Model string `yaml:"model"`

	// Mode selects the batch grouping strategy: single, split, or per-item.
	Mode string `yaml:"mode"`

	// FuzzyThreshold is the minimum similarity for reconciliation fuzzy
	// matches (default 0.85).
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`

	// DatabasePath is the SQLite file holding run history.
	DatabasePath string `yaml:"database_path"`

	// UploadDir receives PDFs posted to the HTTP service.
	UploadDir string `yaml:"upload_dir"`

	// ListenAddr is the HTTP service bind address.
	ListenAddr string `yaml:"listen_addr"`

	// OTLPEndpoint enables trace export when set (host:port).
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = llm.DefaultModel
	}
	if c.Mode == "" {
		c.Mode = string(checklist.StrategySplit)
	}
	if c.FuzzyThreshold == 0 {
		c.FuzzyThreshold = reconcile.DefaultThreshold
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "rfpcheck.db"
	}
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
}

func (c *Config) validate() error {
	switch checklist.GroupStrategy(c.Mode) {
	case checklist.StrategySingle, checklist.StrategySplit, checklist.StrategyPerItem:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy_threshold %v out of range [0,1]", c.FuzzyThreshold)
	}
	return nil
}

// Load reads a configuration YAML file. An empty path returns defaults; a
// missing file is an error so typos surface immediately.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
