package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cognicore/playground/pkg/playground/facts"
)

func TestLoaderDefaults(t *testing.T) {
	comp, err := (&Loader{}).Load()
	require.NoError(t, err)
	require.Equal(t, Default(), comp.Config)
	require.Nil(t, comp.Seed)
	require.Empty(t, comp.Facts)
}

func TestLoaderAllFiles(t *testing.T) {
	l := &Loader{
		ConfigPath: writeFile(t, "playground.yaml", "store:\n  backend: sqlite\n"),
		SeedPath:   writeFile(t, "seed.yaml", "relations:\n  - [Dog, is, Mammal]\n"),
		FactsPath:  writeFile(t, "kb.facts", "is(Mammal, Animal).\n"),
	}

	comp, err := l.Load()
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, comp.Config.Store.Backend)
	require.Len(t, comp.Seed.Relations, 1)
	require.Equal(t, []facts.Fact{{Relation: "is", Subject: "Mammal", Object: "Animal"}}, comp.Facts)
}

func TestLoaderMissingFiles(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	for _, l := range []*Loader{
		{ConfigPath: missing},
		{SeedPath: missing},
		{FactsPath: missing},
	} {
		_, err := l.Load()
		require.Error(t, err)
	}
}

func TestLoaderBadFacts(t *testing.T) {
	l := &Loader{FactsPath: writeFile(t, "kb.facts", "not a fact\n")}
	_, err := l.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 1")
}
