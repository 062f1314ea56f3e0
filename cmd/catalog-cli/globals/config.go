package globals

import (
	"fmt"
	"time"

	devenv "gamecatalog/dev/env"
	"gamecatalog/lib/browser"
	"gamecatalog/lib/configutil"
	"gamecatalog/lib/fetch"
	"gamecatalog/lib/zones"
	"gamecatalog/services/reconcile"
	"gamecatalog/services/scrape"
)

type HTTPConfig struct {
	UserAgent         string  `json:"user_agent"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	Parallelism       int     `json:"parallelism"`
	// full HTTP messages are written here with --verbose
	DumpDir string `json:"dump_dir"`
}

type BrowserConfig struct {
	Headless    *bool  `json:"headless"`
	Bin         string `json:"bin"`
	IdleSeconds int    `json:"idle_seconds"`
}

type GameMonetizeConfig struct {
	FeedURL string `json:"feed_url"`
	Count   int    `json:"count"`
}

type Config struct {
	Catalog      string             `json:"catalog"`
	GamesDir     string             `json:"games_dir"`
	ScrapedDir   string             `json:"scraped_dir"`
	HistoryDB    string             `json:"history_db"`
	Source       string             `json:"source"`
	Zones        zones.Endpoints    `json:"zones"`
	HTTP         HTTPConfig         `json:"http"`
	Browser      BrowserConfig      `json:"browser"`
	GameMonetize GameMonetizeConfig `json:"gamemonetize"`
}

func DefaultConfig() Config {
	headless := true
	return Config{
		Catalog:    "data/games.json",
		GamesDir:   "games",
		ScrapedDir: "scraped",
		HistoryDB:  devenv.StatePrefix + "/history.db",
		Source:     reconcile.DefaultSource,
		Zones:      zones.DefaultEndpoints(),
		HTTP: HTTPConfig{
			UserAgent:         fetch.DefaultUserAgent,
			TimeoutSeconds:    30,
			RequestsPerSecond: 4,
			Parallelism:       8,
		},
		Browser: BrowserConfig{
			Headless:    &headless,
			IdleSeconds: 3,
		},
		GameMonetize: GameMonetizeConfig{
			FeedURL: scrape.DefaultFeedURL,
			Count:   scrape.DefaultFeedCount,
		},
	}
}

// LoadConfig reads path (and its .local override) on top of the defaults
// and expands <dev_state> paths.
func LoadConfig(path string) (Config, error) {
	config, err := configutil.ReadWithDefaults(path, DefaultConfig())
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	for _, p := range []*string{
		&config.Catalog,
		&config.GamesDir,
		&config.ScrapedDir,
		&config.HistoryDB,
		&config.HTTP.DumpDir,
	} {
		*p, err = devenv.ResolvePath(*p)
		if err != nil {
			return Config{}, err
		}
	}
	return config, nil
}

func (c Config) BrowserOptions() browser.Options {
	opts := browser.DefaultOptions()
	if c.Browser.Headless != nil {
		opts.Headless = *c.Browser.Headless
	}
	opts.Bin = c.Browser.Bin
	if c.Browser.IdleSeconds > 0 {
		opts.Idle = time.Duration(c.Browser.IdleSeconds) * time.Second
	}
	return opts
}

func (c Config) GameMonetizePortal() scrape.GameMonetize {
	return scrape.GameMonetize{
		FeedURL: c.GameMonetize.FeedURL,
		Count:   c.GameMonetize.Count,
	}
}
