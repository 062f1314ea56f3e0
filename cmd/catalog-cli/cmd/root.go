package cmd

import (
	"context"
	"os"
	"time"

	"gamecatalog/cmd/catalog-cli/globals"
	"gamecatalog/lib/catalog"
	"gamecatalog/lib/serviceutil"
	"gamecatalog/lib/telemetry"
	"gamecatalog/lib/zones"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "catalog-cli",
	Short: "catalog-cli maintains the games catalog and the game directories it points at.",
	// usage is noise when a download fails halfway through
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(os.Stderr, verbose)

		config, err := globals.LoadConfig(configPath)
		if err != nil {
			return err
		}
		client, err := globals.NewClient(config, verbose)
		if err != nil {
			return err
		}
		tel, err := telemetry.SetupFromEnv(cmd.Context(), "catalog-cli")
		if err != nil {
			return err
		}
		if tel.Enabled() {
			telemetry.InstrumentPerfStats(cmd.Context(), 0)
		}

		cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
			Config:    config,
			Client:    client,
			Telemetry: tel,
			Verbose:   verbose,
		}))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return globals.Get(cmd.Context()).Telemetry.Shutdown(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func Execute() {
	err := rootCmd.ExecuteContext(serviceutil.SignalContext())
	if err != nil {
		serviceutil.Fatal("command failed", err)
	}
}

func loadRegistry(ctx context.Context) (*zones.Registry, []zones.Zone, error) {
	g := globals.Get(ctx)
	zs, err := zones.Fetch(ctx, g.Client, g.Config.Zones.Zones)
	if err != nil {
		return nil, nil, err
	}
	return zones.NewRegistry(zs), zs, nil
}

// modify runs fn against the catalog under its lock, or against a copy
// that is never written when dryRun is set.
func modify(ctx context.Context, dryRun bool, fn func([]catalog.Game) ([]catalog.Game, error)) error {
	path := globals.Get(ctx).Config.Catalog
	if !dryRun {
		return catalog.Update(ctx, path, fn)
	}
	games, err := catalog.Load(path)
	if err != nil {
		return err
	}
	_, err = fn(games)
	return err
}

func addDryRun(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVar(target, "dry-run", false, "report the changes without writing them")
}
