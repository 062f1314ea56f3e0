package cmd

import (
	"context"
	"os"
	"testing"

	"gamecatalog/cmd/catalog-cli/globals"
	"gamecatalog/lib/catalog"
	"gamecatalog/lib/testutil"

	"github.com/stretchr/testify/require"
)

func catalogContext(t *testing.T, games []catalog.Game) (context.Context, string) {
	path := testutil.WriteCatalog(t, games)
	ctx := globals.Set(context.Background(), &globals.Value{
		Config: globals.Config{Catalog: path},
	})
	return ctx, path
}

func TestModifyDryRun(t *testing.T) {
	ctx, path := catalogContext(t, []catalog.Game{{Name: "Slope"}, {Name: "Drift Boss"}})
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	var seen []catalog.Game
	err = modify(ctx, true, func(games []catalog.Game) ([]catalog.Game, error) {
		seen = games
		return games[:1], nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 2)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestModify(t *testing.T) {
	ctx, path := catalogContext(t, []catalog.Game{{Name: "Slope"}, {Name: "Drift Boss"}})

	err := modify(ctx, false, func(games []catalog.Game) ([]catalog.Game, error) {
		return games[:1], nil
	})
	require.NoError(t, err)

	loaded, err := catalog.Load(path)
	require.NoError(t, err)
	require.Equal(t, []catalog.Game{{Name: "Slope"}}, loaded)
}
