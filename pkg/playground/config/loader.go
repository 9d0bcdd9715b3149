package config

import (
	"fmt"
	"os"

	"github.com/cognicore/playground/pkg/playground/facts"
)

// Loader loads all configuration files
type Loader struct {
	ConfigPath string
	SeedPath   string
	FactsPath  string
}

// Components holds all loaded configuration components
type Components struct {
	Config Config
	Seed   *Seed
	Facts  []facts.Fact
}

// Load reads every configured file. Unset paths fall back to defaults or
// leave the component empty.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Config: Default()}

	if l.ConfigPath != "" {
		cfg, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		comp.Config = *cfg
	}

	if l.SeedPath != "" {
		seed, err := LoadSeed(l.SeedPath)
		if err != nil {
			return nil, fmt.Errorf("load seed: %w", err)
		}
		comp.Seed = seed
	}

	if l.FactsPath != "" {
		f, err := os.Open(l.FactsPath)
		if err != nil {
			return nil, fmt.Errorf("load facts: %w", err)
		}
		defer f.Close()

		fs, err := facts.Parse(f)
		if err != nil {
			return nil, fmt.Errorf("load facts %s: %w", l.FactsPath, err)
		}
		comp.Facts = fs
	}

	return comp, nil
}
