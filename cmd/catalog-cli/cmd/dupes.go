package cmd

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"gamecatalog/cmd/catalog-cli/globals"
	"gamecatalog/cmd/catalog-cli/utils"
	"gamecatalog/lib/catalog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var dedupeFlags struct {
	dryRun bool
	by     []string
}

func init() {
	rootCmd.AddCommand(dupesCmd)
	rootCmd.AddCommand(dedupeCmd)
	addDryRun(dedupeCmd, &dedupeFlags.dryRun)

	keys := make([]string, len(catalog.AllKeys))
	for i, k := range catalog.AllKeys {
		keys[i] = string(k)
	}
	dedupeCmd.Flags().StringSliceVar(&dedupeFlags.by, "by", keys, "keys two entries must not share")
}

var dupesCmd = &cobra.Command{
	Use:   "dupes",
	Short: "Report catalog entries that share a name, directory or image path.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		games, err := catalog.Load(globals.Get(ctx).Config.Catalog)
		if err != nil {
			return err
		}

		sourcesTable(games)
		report := catalog.FindDuplicates(games)
		if report.Clean() {
			slog.InfoContext(ctx, "no duplicates", "games", report.Total)
			return nil
		}

		for _, key := range catalog.AllKeys {
			groups := report.Groups[key]
			if len(groups) == 0 {
				continue
			}
			t := utils.NewTable()
			t.SetTitle(fmt.Sprintf("duplicate %s (%d)", key, len(groups)))
			t.AppendHeader(table.Row{key, "count", "entries"})
			for _, group := range groups {
				members := make([]string, len(group.Members))
				for i, m := range group.Members {
					members[i] = fmt.Sprintf("#%d %s (%s)", m.Index, m.Game.Name, m.Game.Directory)
				}
				t.AppendRow(table.Row{group.Value, len(group.Members), strings.Join(members, "\n")})
			}
			t.Render()
		}

		slog.InfoContext(ctx, "duplicates found", "games", report.Total, "extra_entries", report.ExtraEntries())
		return nil
	},
}

func sourcesTable(games []catalog.Game) {
	counts := catalog.CountBySource(games)
	sources := slices.Sorted(maps.Keys(counts))

	t := utils.NewTable()
	t.SetTitle("entries by source")
	t.AppendHeader(table.Row{"source", "entries"})
	for _, src := range sources {
		name := src
		if name == "" {
			name = "(none)"
		}
		t.AppendRow(table.Row{name, counts[src]})
	}
	t.AppendFooter(table.Row{"total", len(games)})
	t.Render()
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove later entries that duplicate an earlier one.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		keys := make([]catalog.Key, 0, len(dedupeFlags.by))
		for _, raw := range dedupeFlags.by {
			key := catalog.Key(strings.TrimSpace(raw))
			if !slices.Contains(catalog.AllKeys, key) {
				return fmt.Errorf("unknown key %q", raw)
			}
			keys = append(keys, key)
		}

		var removed []catalog.Game
		var remaining int
		err := modify(ctx, dedupeFlags.dryRun, func(games []catalog.Game) ([]catalog.Game, error) {
			var kept []catalog.Game
			kept, removed = catalog.Dedupe(games, keys...)
			remaining = len(kept)
			return kept, nil
		})
		if err != nil {
			return err
		}

		utils.GamesTable("removed", removed)
		slog.InfoContext(ctx, "deduplicated catalog", "removed", len(removed), "remaining", remaining, "dry_run", dedupeFlags.dryRun)
		return nil
	},
}
