package utils

import (
	"fmt"
	"os"
	"strings"

	"gamecatalog/lib/catalog"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// GamesTable renders games under a title, nothing is printed when games
// is empty.
func GamesTable(title string, games []catalog.Game) {
	if len(games) == 0 {
		return
	}
	t := NewTable()
	t.SetTitle(fmt.Sprintf("%s (%d)", title, len(games)))
	t.AppendHeader(table.Row{"name", "directory", "source", "imagePath"})
	for _, g := range games {
		t.AppendRow(table.Row{g.Name, g.Directory, g.Source, g.ImagePath})
	}
	t.Render()
}

func DiffTable(diff catalog.Diff, before, after string) {
	t := NewTable()
	t.SetTitle(fmt.Sprintf("%s (%d) -> %s (%d), delta %+d", before, diff.Before, after, diff.After, diff.Delta()))
	t.AppendHeader(table.Row{"", "name", "detail"})
	for _, g := range diff.Added {
		t.AppendRow(table.Row{"+", g.Name, g.Directory})
	}
	for _, g := range diff.Removed {
		t.AppendRow(table.Row{"-", g.Name, g.Directory})
	}
	for _, c := range diff.Changed {
		t.AppendRow(table.Row{"~", c.After.Name, strings.Join(changedFields(c), ", ")})
	}
	t.Render()
}

func changedFields(c catalog.Change) []string {
	var out []string
	if c.Before.Directory != c.After.Directory {
		out = append(out, fmt.Sprintf("directory %q -> %q", c.Before.Directory, c.After.Directory))
	}
	if c.Before.ImagePath != c.After.ImagePath {
		out = append(out, fmt.Sprintf("imagePath %q -> %q", c.Before.ImagePath, c.After.ImagePath))
	}
	if c.Before.Source != c.After.Source {
		out = append(out, fmt.Sprintf("source %q -> %q", c.Before.Source, c.After.Source))
	}
	return out
}
