package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gamecatalog/cmd/catalog-cli/globals"
	"gamecatalog/cmd/catalog-cli/utils"
	"gamecatalog/lib/assets"
	"gamecatalog/lib/catalog"
	"gamecatalog/lib/fetch"
	"gamecatalog/lib/htmlpatch"

	"github.com/PuerkitoBio/goquery"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var stripFlags struct {
	dryRun bool
}

func init() {
	rootCmd.AddCommand(decompressCmd)
	rootCmd.AddCommand(stripYandexCmd)
	rootCmd.AddCommand(iframesCmd)
	addDryRun(stripYandexCmd, &stripFlags.dryRun)
}

var decompressCmd = &cobra.Command{
	Use:   "decompress <dir>",
	Short: "Decompress every .br file under a directory next to the original.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		files, err := fetch.DecompressDir(args[0])

		if len(files) > 0 {
			t := utils.NewTable()
			t.AppendHeader(table.Row{"file", "bytes"})
			var total int64
			for _, f := range files {
				t.AppendRow(table.Row{f.Dst, f.Bytes})
				total += f.Bytes
			}
			t.AppendFooter(table.Row{"total", total})
			t.Render()
		}
		slog.InfoContext(ctx, "decompressed", "dir", args[0], "files", len(files))
		return err
	},
}

var stripYandexCmd = &cobra.Command{
	Use:   "strip-yandex <file...>",
	Short: "Remove the Yandex Games SDK from game HTML files in place.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		t := utils.NewTable()
		t.AppendHeader(table.Row{"file", "bytes removed"})

		var errs []error
		for _, path := range args {
			contents, err := os.ReadFile(path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			out, removed := htmlpatch.StripYandexSDK(string(contents))
			t.AppendRow(table.Row{path, removed})
			if out == string(contents) || stripFlags.dryRun {
				continue
			}
			err = os.WriteFile(path, []byte(out), 0644)
			if err != nil {
				errs = append(errs, fmt.Errorf("write %s: %w", path, err))
			}
		}
		t.Render()

		slog.InfoContext(ctx, "stripped yandex sdk", "files", len(args), "dry_run", stripFlags.dryRun)
		return errors.Join(errs...)
	},
}

var iframesCmd = &cobra.Command{
	Use:   "iframes",
	Short: "List games that embed an external page instead of hosting their files.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g := globals.Get(ctx)

		games, err := catalog.Load(g.Config.Catalog)
		if err != nil {
			return err
		}
		entries := 0
		t := utils.NewTable()
		t.SetTitle("iframe games")
		t.AppendHeader(table.Row{"where", "game", "src"})
		for _, game := range iframeEntries(games) {
			entries++
			t.AppendRow(table.Row{"catalog", game.Name, game.URL})
		}

		dirs, err := iframeDirectories(g.Config.GamesDir)
		if err != nil {
			return err
		}
		for _, d := range dirs {
			t.AppendRow(table.Row{"directory", d.name, strings.Join(d.srcs, "\n")})
		}
		t.Render()

		slog.InfoContext(ctx, "iframe audit", "entries", entries, "directories", len(dirs))
		return nil
	},
}

type iframeDir struct {
	name string
	srcs []string
}

// iframeEntries lists the catalog entries that point at an external page.
// Links into the site's own semag mirrors are not external.
func iframeEntries(games []catalog.Game) []catalog.Game {
	var out []catalog.Game
	for _, g := range games {
		if !strings.HasPrefix(g.URL, "http") || strings.Contains(g.URL, "semag") {
			continue
		}
		out = append(out, g)
	}
	return out
}

// iframeDirectories walks gamesDir and lists every directory whose
// index.html frames an absolute URL.
func iframeDirectories(gamesDir string) ([]iframeDir, error) {
	var out []iframeDir
	err := filepath.WalkDir(gamesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == gamesDir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || d.Name() != "index.html" {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		doc, err := goquery.NewDocumentFromReader(f)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if srcs := assets.ExternalIframes(doc); len(srcs) > 0 {
			out = append(out, iframeDir{name: filepath.Base(filepath.Dir(path)), srcs: srcs})
		}
		return nil
	})
	return out, err
}
