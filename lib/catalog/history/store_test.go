package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gamecatalog/lib/catalog"

	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) Store {
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestStore(t *testing.T) {
	store := openMemory(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := store.Latest(ctx)
	require.ErrorIs(t, err, ErrNoSnapshots)

	first := []catalog.Game{
		{Name: "Slope", Directory: "slope", Source: "non-semag"},
		{Name: "Retro Bowl", Directory: "retro-bowl"},
	}
	firstID, err := store.Snapshot(ctx, "before merge", first)
	require.NoError(t, err)

	second := append(first[:1:1], catalog.Game{Name: "Drift Boss", Directory: "drift-boss"})
	secondID, err := store.Snapshot(ctx, "after merge", second)
	require.NoError(t, err)
	require.Greater(t, secondID, firstID)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, secondID, latest.ID)
	require.Equal(t, "after merge", latest.Label)
	require.Equal(t, second, latest.Games)

	got, err := store.Get(ctx, firstID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Count)
	require.Equal(t, first, got.Games)

	_, err = store.Get(ctx, 999)
	require.ErrorIs(t, err, ErrNoSnapshots)

	summaries, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, secondID, summaries[0].ID)

	summaries, err = store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	d, since, err := store.SinceLatest(ctx, first)
	require.NoError(t, err)
	require.Equal(t, secondID, since.ID)
	require.Len(t, d.Added, 1)
	require.Equal(t, "Retro Bowl", d.Added[0].Name)
	require.Len(t, d.Removed, 1)
	require.Equal(t, "Drift Boss", d.Removed[0].Name)
}

func TestSinceLatestWithoutSnapshots(t *testing.T) {
	store := openMemory(t)
	d, latest, err := store.SinceLatest(context.Background(), []catalog.Game{{Name: "Slope"}})
	require.NoError(t, err)
	require.Zero(t, latest.ID)
	require.Len(t, d.Added, 1)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.Snapshot(context.Background(), "", nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	latest, err := store.Latest(context.Background())
	require.NoError(t, err)
	require.Empty(t, latest.Games)
}
