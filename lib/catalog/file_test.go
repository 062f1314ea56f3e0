package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `[
	{
		"name": "Slope",
		"directory": "slope",
		"image": "cover.png",
		"source": "non-semag",
		"imagePath": "https://cdn.jsdelivr.net/gh/gn-math/covers@main/12.png",
		"featured": true
	},
	{
		"name": "Tom & Jerry",
		"directory": "tom-jerry"
	}
]`

func TestDecodePreservesUnknownKeys(t *testing.T) {
	games, err := Decode([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, games, 2)
	require.Equal(t, "true", string(games[0].Extra["featured"]))
	require.Nil(t, games[1].Extra)

	encoded, err := Encode(games)
	require.NoError(t, err)
	require.Contains(t, string(encoded), `"featured": true`)
	require.Contains(t, string(encoded), `"name": "Tom & Jerry"`)
	require.True(t, strings.HasPrefix(string(encoded), "[\n\t{\n\t\t\"name\""))
	require.True(t, strings.HasSuffix(string(encoded), "]\n"))

	roundTripped, err := Decode(encoded)
	require.NoError(t, err)
	if diff := cmp.Diff(games, roundTripped); diff != "" {
		t.Fatal(diff)
	}
}

func TestDecodeWrappedObject(t *testing.T) {
	games, err := Decode([]byte(`{"games": [{"name": "Slope"}]}`))
	require.NoError(t, err)
	require.Equal(t, []Game{{Name: "Slope"}}, games)
}

func TestDecodeEmpty(t *testing.T) {
	_, err := Decode([]byte("  \n"))
	require.Error(t, err)
}

func TestEncodeOmitsEmptyOptionalFields(t *testing.T) {
	encoded, err := Encode([]Game{{Name: "Slope", Directory: "slope"}})
	require.NoError(t, err)
	require.NotContains(t, string(encoded), "author")
	require.NotContains(t, string(encoded), "imagePath")

	encoded, err = Encode(nil)
	require.NoError(t, err)
	require.Equal(t, "[]\n", string(encoded))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "games.json")
	games := []Game{
		{Name: "Slope", Directory: "slope", Image: DefaultImage},
		{Name: "Retro Bowl", Directory: "retro-bowl"},
	}
	require.NoError(t, Save(path, games))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, games, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files should not be left behind")
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "games.json")

	err := Update(ctx, path, func(games []Game) ([]Game, error) {
		require.Empty(t, games)
		return append(games, Game{Name: "Slope"}), nil
	})
	require.NoError(t, err)

	errAbort := errors.New("abort")
	err = Update(ctx, path, func(games []Game) ([]Game, error) {
		return nil, errAbort
	})
	require.ErrorIs(t, err, errAbort)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []Game{{Name: "Slope"}}, loaded)
}

func TestUpdateWaitsForLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.json")
	require.NoError(t, Save(path, []Game{{Name: "Slope"}}))

	held := flock.New(path + ".lock")
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	called := false
	err = Update(ctx, path, func(games []Game) ([]Game, error) {
		called = true
		return nil, nil
	})
	require.ErrorIs(t, err, ErrLocked)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, called)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []Game{{Name: "Slope"}}, loaded)

	require.NoError(t, held.Unlock())
	err = Update(context.Background(), path, func(games []Game) ([]Game, error) {
		return append(games, Game{Name: "Drift Boss"}), nil
	})
	require.NoError(t, err)
}

func TestUpdateConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "games.json")

	names := []string{"Slope", "Drift Boss", "Retro Bowl", "Tom & Jerry"}
	errs := make([]error, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = Update(ctx, path, func(games []Game) ([]Game, error) {
				return append(games, Game{Name: name}), nil
			})
		}()
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	loaded, err := Load(path)
	require.NoError(t, err)
	got := make([]string, len(loaded))
	for i, g := range loaded {
		got[i] = g.Name
	}
	require.ElementsMatch(t, names, got)
}
