package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"gamecatalog/lib/catalog"

	"github.com/stretchr/testify/require"
)

func TestIframeDirectories(t *testing.T) {
	dir := t.TempDir()
	write := func(name, contents string) {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, name), 0777))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name, "index.html"), []byte(contents), 0644))
	}
	write("slope", `<script src="game.js"></script>`)
	write("tom-jerry", `<iframe id="game-iframe" src="https://games.crazygames.com/en_US/tom-jerry/index.html"></iframe>`)
	write("fnaf/fnaf2", `<iframe src="https://fnaf.example.com/2/"></iframe>`)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0777))

	dirs, err := iframeDirectories(dir)
	require.NoError(t, err)
	require.Equal(t, []iframeDir{{
		name: "fnaf2",
		srcs: []string{"https://fnaf.example.com/2/"},
	}, {
		name: "tom-jerry",
		srcs: []string{"https://games.crazygames.com/en_US/tom-jerry/index.html"},
	}}, dirs)

	dirs, err = iframeDirectories(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.Empty(t, dirs)
}

func TestIframeEntries(t *testing.T) {
	games := []catalog.Game{
		{Name: "Slope", Directory: "slope"},
		{Name: "Tom and Jerry", URL: "https://games.crazygames.com/en_US/tom-jerry/index.html"},
		{Name: "Mirror", URL: "https://example.github.io/semag/mirror/"},
		{Name: "Other Mirror", URL: "https://example.github.io/non-semag/other/"},
		{Name: "Relative", URL: "games/relative/"},
	}
	got := iframeEntries(games)
	require.Len(t, got, 1)
	require.Equal(t, "Tom and Jerry", got[0].Name)
}
