package cmd

import (
	"log/slog"

	"gamecatalog/cmd/catalog-cli/globals"
	"gamecatalog/cmd/catalog-cli/utils"
	"gamecatalog/lib/catalog"
	"gamecatalog/services/reconcile"

	"github.com/spf13/cobra"
)

var mergeFlags struct {
	dryRun       bool
	featuredOnly bool
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	addDryRun(mergeCmd, &mergeFlags.dryRun)
	mergeCmd.Flags().BoolVar(&mergeFlags.featuredOnly, "featured-only", false, "only add zones flagged as featured")
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Add registry zones that have no catalog entry yet.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g := globals.Get(ctx)

		_, zs, err := loadRegistry(ctx)
		if err != nil {
			return err
		}

		var added []catalog.Game
		var skipped int
		err = modify(ctx, mergeFlags.dryRun, func(games []catalog.Game) ([]catalog.Game, error) {
			var merged []catalog.Game
			merged, added, skipped = reconcile.Merge(games, zs, reconcile.MergeOptions{
				Source:       g.Config.Source,
				Endpoints:    g.Config.Zones,
				FeaturedOnly: mergeFlags.featuredOnly,
			})
			return merged, nil
		})
		if err != nil {
			return err
		}

		utils.GamesTable("added", added)
		slog.InfoContext(ctx, "merged registry", "added", len(added), "already_present", skipped, "dry_run", mergeFlags.dryRun)
		return nil
	},
}
