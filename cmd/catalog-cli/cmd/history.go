package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gamecatalog/cmd/catalog-cli/globals"
	"gamecatalog/cmd/catalog-cli/utils"
	"gamecatalog/lib/catalog"
	"gamecatalog/lib/catalog/history"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyFlags struct {
	limit int
}

var diffFlags struct {
	remote   string
	snapshot int64
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(diffCmd)
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "number of snapshots to list, 0 for all")
	diffCmd.Flags().StringVar(&diffFlags.remote, "remote", "", "compare against the catalog served at this URL")
	diffCmd.Flags().Int64Var(&diffFlags.snapshot, "snapshot", 0, "compare against this snapshot instead of the latest")
	diffCmd.MarkFlagsMutuallyExclusive("remote", "snapshot")
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [label]",
	Short: "Record the current catalog in the history database.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g := globals.Get(ctx)

		label := strings.Join(args, "")
		games, err := catalog.Load(g.Config.Catalog)
		if err != nil {
			return err
		}
		store, err := history.Open(g.Config.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Snapshot(ctx, label, games)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "snapshot recorded", "id", id, "label", label, "games", len(games))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded catalog snapshots, newest first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := history.Open(globals.Get(ctx).Config.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		snapshots, err := store.List(ctx, historyFlags.limit)
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			slog.InfoContext(ctx, "no snapshots recorded")
			return nil
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"id", "time", "label", "games"})
		for _, s := range snapshots {
			t.AppendRow(table.Row{s.ID, s.Time.Format(time.DateTime), s.Label, s.Count})
		}
		t.Render()
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the catalog with the latest snapshot, a given snapshot, or a remote copy.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g := globals.Get(ctx)

		games, err := catalog.Load(g.Config.Catalog)
		if err != nil {
			return err
		}

		if diffFlags.remote != "" {
			page, err := g.Client.GetPage(ctx, diffFlags.remote)
			if err != nil {
				return err
			}
			remote, err := catalog.Decode(page.Body)
			if err != nil {
				return fmt.Errorf("decode remote catalog: %w", err)
			}
			utils.DiffTable(catalog.Compare(remote, games), "remote", "local")
			return nil
		}

		store, err := history.Open(g.Config.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		if diffFlags.snapshot > 0 {
			snapshot, err := store.Get(ctx, diffFlags.snapshot)
			if err != nil {
				return err
			}
			utils.DiffTable(catalog.Compare(snapshot.Games, games), snapshotLabel(snapshot.Summary), "catalog")
			return nil
		}

		d, latest, err := store.SinceLatest(ctx, games)
		if err != nil {
			return err
		}
		utils.DiffTable(d, snapshotLabel(latest), "catalog")
		return nil
	},
}

func snapshotLabel(s history.Summary) string {
	if s.ID == 0 {
		return "no snapshot"
	}
	return fmt.Sprintf("snapshot %d", s.ID)
}
