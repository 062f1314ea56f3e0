package cmd

import (
	"log/slog"

	"gamecatalog/cmd/catalog-cli/utils"
	"gamecatalog/lib/catalog"
	"gamecatalog/services/reconcile"

	"github.com/spf13/cobra"
)

var cleanFlags struct {
	dryRun bool
}

var pruneFlags struct {
	dryRun bool
	except []string
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(pruneCmd)
	addDryRun(cleanCmd, &cleanFlags.dryRun)
	addDryRun(pruneCmd, &pruneFlags.dryRun)
	pruneCmd.Flags().StringSliceVar(&pruneFlags.except, "except", nil, "keep entries whose name contains any of these")
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove suggestion and comment entries from the catalog.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var removed []catalog.Game
		err := modify(ctx, cleanFlags.dryRun, func(games []catalog.Game) ([]catalog.Game, error) {
			var kept []catalog.Game
			kept, removed = reconcile.Clean(games)
			return kept, nil
		})
		if err != nil {
			return err
		}
		utils.GamesTable("removed", removed)
		slog.InfoContext(ctx, "cleaned catalog", "removed", len(removed), "dry_run", cleanFlags.dryRun)
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune <name contains>",
	Short: "Remove every entry whose name contains the given text.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var removed []catalog.Game
		err := modify(ctx, pruneFlags.dryRun, func(games []catalog.Game) ([]catalog.Game, error) {
			var kept []catalog.Game
			kept, removed = reconcile.Prune(games, args[0], pruneFlags.except)
			return kept, nil
		})
		if err != nil {
			return err
		}
		utils.GamesTable("removed", removed)
		slog.InfoContext(ctx, "pruned catalog", "pattern", args[0], "removed", len(removed), "dry_run", pruneFlags.dryRun)
		return nil
	},
}
