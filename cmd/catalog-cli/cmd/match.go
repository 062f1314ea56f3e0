package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"gamecatalog/cmd/catalog-cli/globals"
	"gamecatalog/cmd/catalog-cli/utils"
	"gamecatalog/lib/catalog"
	"gamecatalog/services/reconcile"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var matchFlags struct {
	dryRun     bool
	allSources bool
	fuzzy      float64
	moveDirs   bool
}

func init() {
	rootCmd.AddCommand(matchCmd)
	addDryRun(matchCmd, &matchFlags.dryRun)
	matchCmd.Flags().BoolVar(&matchFlags.allSources, "all-sources", false, "reconcile every entry instead of only the configured source")
	matchCmd.Flags().Float64Var(&matchFlags.fuzzy, "fuzzy", 0, "apply fuzzy name links at or above this similarity (0 disables)")
	matchCmd.Flags().BoolVar(&matchFlags.moveDirs, "move-dirs", false, "rename game directories along with their entries")
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Reconcile catalog entries against the gn-math zone registry.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g := globals.Get(ctx)

		registry, _, err := loadRegistry(ctx)
		if err != nil {
			return err
		}

		opts := reconcile.DefaultOptions()
		opts.Source = g.Config.Source
		if matchFlags.allSources {
			opts.Source = ""
		}
		opts.Endpoints = g.Config.Zones
		opts.FuzzyThreshold = matchFlags.fuzzy
		opts.MoveDirs = matchFlags.moveDirs && !matchFlags.dryRun
		opts.GamesDir = g.Config.GamesDir

		var result reconcile.Result
		err = modify(ctx, matchFlags.dryRun, func(games []catalog.Game) ([]catalog.Game, error) {
			var err error
			result, err = reconcile.Reconcile(ctx, games, registry, opts)
			if err != nil {
				// directories that did move must stay consistent with the file
				slog.WarnContext(ctx, "some game directories could not be moved", "err", err)
			}
			return result.Games, nil
		})
		if err != nil {
			return err
		}

		printEntries(result.Entries)
		printSuggestions(result.Suggestions)
		utils.GamesTable("gn-math covers without a zone", result.Unmatched)

		slog.InfoContext(
			ctx, "reconciled catalog",
			"considered", result.Considered,
			"matched", result.Matched,
			"updated", result.Updated,
			"unmatched", len(result.Unmatched),
			"dry_run", matchFlags.dryRun,
		)
		return nil
	},
}

func printEntries(entries []reconcile.Entry) {
	if len(entries) == 0 {
		return
	}
	t := utils.NewTable()
	t.SetTitle(fmt.Sprintf("updated entries (%d)", len(entries)))
	t.AppendHeader(table.Row{"#", "entry", "zone", "match", "changes"})
	for _, e := range entries {
		changes := make([]string, len(e.Changes))
		for i, c := range e.Changes {
			changes[i] = fmt.Sprintf("%s: %q -> %q", c.Field, c.Old, c.New)
		}
		if e.Moved {
			changes = append(changes, "directory moved")
		}
		t.AppendRow(table.Row{e.Index, e.Name, fmt.Sprintf("%d %s", e.Zone.ID, e.Zone.Name), e.Kind, strings.Join(changes, "\n")})
	}
	t.Render()
}

func printSuggestions(suggestions []reconcile.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	t := utils.NewTable()
	t.SetTitle("possible matches (not applied)")
	t.AppendHeader(table.Row{"#", "entry", "zone", "similarity"})
	for _, s := range suggestions {
		t.AppendRow(table.Row{s.Index, s.Name, fmt.Sprintf("%d %s", s.Zone.ID, s.Zone.Name), fmt.Sprintf("%.3f", s.Correlation)})
	}
	t.Render()
}
