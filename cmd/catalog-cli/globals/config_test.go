package globals

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gamecatalog/lib/zones"
	"gamecatalog/services/scrape"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	err := os.WriteFile(path, []byte(`{
		// comments are fine
		catalog: "site/data/games.json",
		history_db: "`+filepath.ToSlash(filepath.Join(dir, "history.db"))+`",
		browser: { headless: false },
		gamemonetize: { count: 5 },
	}`), 0600)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{ games_dir: "local-games" }`), 0600)
	require.NoError(t, err)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "site/data/games.json", config.Catalog)
	require.Equal(t, "local-games", config.GamesDir)
	require.Equal(t, "scraped", config.ScrapedDir)
	require.Equal(t, "non-semag", config.Source)
	require.Equal(t, zones.DefaultEndpoints(), config.Zones)
	require.Equal(t, 5, config.GameMonetize.Count)
	require.Equal(t, scrape.DefaultFeedURL, config.GameMonetize.FeedURL)
	require.Equal(t, 8, config.HTTP.Parallelism)

	opts := config.BrowserOptions()
	require.False(t, opts.Headless)
	require.Equal(t, 3*time.Second, opts.Idle)
}

func TestLoadConfigMissing(t *testing.T) {
	dir := t.TempDir()
	defaults := DefaultConfig()

	config, err := LoadConfig(filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, defaults.Catalog, config.Catalog)
	require.True(t, config.BrowserOptions().Headless)
	require.NotEmpty(t, config.HistoryDB)
}

func TestLoadConfigOutsideWorkspace(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	site := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(site, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(site, "data", "games.json"), []byte("[]"), 0644))
	t.Chdir(site)

	config, err := LoadConfig("config.json5")
	require.NoError(t, err)
	require.Equal(t, "data/games.json", config.Catalog)

	cache, err := os.UserCacheDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cache, "gamecatalog", "history.db"), config.HistoryDB)
}
