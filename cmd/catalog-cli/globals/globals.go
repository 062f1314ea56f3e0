package globals

import (
	"context"
	"os"
	"time"

	"gamecatalog/lib/fetch"
	"gamecatalog/lib/restyutil"
	"gamecatalog/lib/telemetry"
	"gamecatalog/services/scrape"
)

type key struct{}

type Value struct {
	Config    Config
	Client    *fetch.Client
	Telemetry telemetry.Telemetry
	Verbose   bool
}

// NewClient builds the HTTP client described by the config. Progress bars
// are drawn on stderr.
func NewClient(config Config, verbose bool) (*fetch.Client, error) {
	opts := fetch.Options{
		UserAgent:         config.HTTP.UserAgent,
		Timeout:           time.Duration(config.HTTP.TimeoutSeconds) * time.Second,
		RequestsPerSecond: config.HTTP.RequestsPerSecond,
		Progress:          os.Stderr,
	}
	if verbose && config.HTTP.DumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(config.HTTP.DumpDir)
		if err != nil {
			return nil, err
		}
		opts.Dump = output
	}
	return fetch.New(opts)
}

func (v *Value) ScrapeEnv() scrape.Env {
	return scrape.Env{
		Client:      v.Client,
		GamesDir:    v.Config.GamesDir,
		ScrapedDir:  v.Config.ScrapedDir,
		Endpoints:   v.Config.Zones,
		Browser:     v.Config.BrowserOptions(),
		Source:      v.Config.Source,
		Parallelism: v.Config.HTTP.Parallelism,
	}
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key{}).(*Value)
}
