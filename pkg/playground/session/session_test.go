package session

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/playground/pkg/playground/config"
	"github.com/cognicore/playground/pkg/playground/internalerr"
)

func TestSessionsAreIndependent(t *testing.T) {
	for _, backend := range []string{config.BackendMemory, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			cfg := config.Default()
			cfg.Store.Backend = backend
			m := NewManager(cfg, nil, nil)
			defer m.Close()

			idA, a, err := m.Create(ctx)
			require.NoError(t, err)
			idB, b, err := m.Create(ctx)
			require.NoError(t, err)
			require.NotEqual(t, idA, idB)

			require.NoError(t, a.AddRelation(ctx, "Dog", "is", "Animal"))

			got, err := a.Ask(ctx, "Dog is Animal")
			require.NoError(t, err)
			require.Equal(t, []string{"Dog is Animal (inferred)"}, got)

			got, err = b.Ask(ctx, "Dog is Animal")
			require.NoError(t, err)
			require.Empty(t, got)
		})
	}
}

func TestIDsAreOrderedULIDs(t *testing.T) {
	ctx := context.Background()
	m := NewManager(config.Default(), nil, nil)
	defer m.Close()

	var prev ID
	for i := 0; i < 5; i++ {
		id, _, err := m.Create(ctx)
		require.NoError(t, err)
		_, err = ulid.Parse(string(id))
		require.NoError(t, err)
		if prev != "" {
			require.Less(t, string(prev), string(id))
		}
		prev = id
	}
	require.Equal(t, 5, m.Len())
}

func TestGetAndEnd(t *testing.T) {
	ctx := context.Background()
	m := NewManager(config.Default(), nil, nil)

	id, p, err := m.Create(ctx)
	require.NoError(t, err)

	got, ok := m.Get(id)
	require.True(t, ok)
	require.Same(t, p, got)

	require.NoError(t, m.End(id))
	_, ok = m.Get(id)
	require.False(t, ok)
	require.Equal(t, 0, m.Len())

	require.ErrorIs(t, m.End(id), internalerr.ErrNotFound)
}

func TestCreateFailsOnBadBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "postgres"
	m := NewManager(cfg, nil, nil)

	_, _, err := m.Create(context.Background())
	require.Error(t, err)
	require.Equal(t, 0, m.Len())
}
