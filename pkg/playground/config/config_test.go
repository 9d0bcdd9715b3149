package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cognicore/playground/pkg/playground/internalerr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "playground.yaml", `store:
  backend: sqlite
engine:
  max_depth: 12
log:
  level: debug
  development: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, cfg.Store.Backend)
	require.Equal(t, 12, cfg.Engine.MaxDepth)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Log.Development)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := writeFile(t, "playground.yaml", "log:\n  level: warn\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, BackendMemory, cfg.Store.Backend)
	require.Equal(t, Default().Engine.MaxDepth, cfg.Engine.MaxDepth)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"backend":   "store:\n  backend: postgres\n",
		"depth":     "engine:\n  max_depth: -1\n",
		"log level": "log:\n  level: loud\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "playground.yaml", content))
			require.ErrorIs(t, err, internalerr.ErrInvalidConfig)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadSeed(t *testing.T) {
	path := writeFile(t, "seed.yaml", `concepts: [Cat]
relations:
  - [Dog, is, Mammal]
  - [Mammal, is, Animal]
properties:
  CustomerDB: [sensitive]
`)

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Cat"}, seed.Concepts)
	require.Equal(t, [][]string{{"Dog", "is", "Mammal"}, {"Mammal", "is", "Animal"}}, seed.Relations)
	require.Equal(t, map[string][]string{"CustomerDB": {"sensitive"}}, seed.Properties)
}

func TestLoadSeedBadRelation(t *testing.T) {
	path := writeFile(t, "seed.yaml", "relations:\n  - [Dog, is]\n")
	_, err := LoadSeed(path)
	require.ErrorIs(t, err, internalerr.ErrInvalidInput)
}
