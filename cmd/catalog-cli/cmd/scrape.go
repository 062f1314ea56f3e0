package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gamecatalog/cmd/catalog-cli/globals"
	"gamecatalog/cmd/catalog-cli/utils"
	"gamecatalog/services/scrape"

	"github.com/spf13/cobra"
)

var scrapeFlags struct {
	directory string
	noInstall bool
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(cloneCmd)
	for _, cmd := range []*cobra.Command{scrapeCmd, cloneCmd} {
		cmd.Flags().StringVar(&scrapeFlags.directory, "directory", "", "game directory name, derived from the title when empty")
		cmd.Flags().BoolVar(&scrapeFlags.noInstall, "no-install", false, "download the game without adding it to the catalog")
	}
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <portal> [target]",
	Short: "Download a game from a portal and add it to the catalog.",
	Long: "Download a game from a portal and add it to the catalog.\n\n" +
		"Portals: " + strings.Join(scrape.Default(scrape.GameMonetize{}).Names(), ", ") + ".\n" +
		"gnmath takes a zone id, gamemonetize an optional feed URL, the others a page URL or slug.",
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) > 1 {
			target = args[1]
		}
		return runScrape(cmd.Context(), args[0], target)
	},
}

var cloneCmd = &cobra.Command{
	Use:   "clone <zone id>",
	Short: "Download a gn-math zone into the games directory and add it to the catalog.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd.Context(), scrape.GNMath{}.Name(), args[0])
	},
}

func runScrape(ctx context.Context, portal, target string) error {
	g := globals.Get(ctx)
	registry := scrape.Default(g.Config.GameMonetizePortal())

	env := g.ScrapeEnv()
	env.Directory = scrapeFlags.directory

	result, scrapeErr := registry.Scrape(ctx, portal, target, env)
	if len(result.Games) == 0 {
		if scrapeErr == nil {
			scrapeErr = fmt.Errorf("%s produced no games", portal)
		}
		return scrapeErr
	}
	if scrapeErr != nil {
		slog.WarnContext(ctx, "some games failed to scrape", "portal", portal, "err", scrapeErr)
	}

	utils.GamesTable("scraped", result.Games)
	slog.InfoContext(ctx, "scraped", "portal", portal, "games", len(result.Games), "files", len(result.Files))

	if scrapeFlags.noInstall {
		return nil
	}
	replaced, err := scrape.Install(ctx, g.Config.Catalog, result)
	if err != nil {
		return fmt.Errorf("install: %w", err)
	}
	utils.GamesTable("replaced", replaced)
	slog.InfoContext(ctx, "installed", "catalog", g.Config.Catalog, "replaced", len(replaced))
	return nil
}
