package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/playground/pkg/playground/inference/simple"
	"github.com/cognicore/playground/pkg/playground/internalerr"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config is the playground configuration file
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Engine EngineConfig `yaml:"engine"`
	Log    LogConfig    `yaml:"log"`
}

// StoreConfig selects the knowledge store backend
type StoreConfig struct {
	Backend string `yaml:"backend"`
}

// EngineConfig tunes the inference engine
type EngineConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Store:  StoreConfig{Backend: BackendMemory},
		Engine: EngineConfig{MaxDepth: simple.DefaultMaxDepth},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads a YAML config file. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("%w: unknown store backend %q", internalerr.ErrInvalidConfig, c.Store.Backend)
	}

	if c.Engine.MaxDepth < 0 {
		return fmt.Errorf("%w: engine.max_depth must not be negative, got %d", internalerr.ErrInvalidConfig, c.Engine.MaxDepth)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", internalerr.ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// Seed is an initial knowledge base
type Seed struct {
	Concepts   []string            `yaml:"concepts"`
	Relations  [][]string          `yaml:"relations"`
	Properties map[string][]string `yaml:"properties"`
}

// LoadSeed loads seed knowledge from a YAML file
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, err
	}

	for i, rel := range seed.Relations {
		if len(rel) != 3 {
			return nil, fmt.Errorf("%w: relation %d needs [subject, label, target], got %v", internalerr.ErrInvalidInput, i, rel)
		}
	}
	return &seed, nil
}
