package catalog

import (
	"slices"
	"strings"

	"gamecatalog/lib/textutil"
)

type Change struct {
	Before Game
	After  Game
}

type Diff struct {
	Added   []Game
	Removed []Game
	Changed []Change

	Before int
	After  int
}

func (d Diff) Delta() int {
	return d.After - d.Before
}

func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Compare computes what happened between two versions of the catalog.
// Entries are paired by normalized name; a pair counts as changed when its
// directory, cover or source differ.
func Compare(before, after []Game) Diff {
	d := Diff{Before: len(before), After: len(after)}

	index := func(games []Game) map[string]Game {
		out := make(map[string]Game, len(games))
		for _, g := range games {
			key := textutil.NormalizeName(g.Name)
			if _, exists := out[key]; !exists {
				out[key] = g
			}
		}
		return out
	}
	oldByName := index(before)
	newByName := index(after)

	for key, g := range newByName {
		old, ok := oldByName[key]
		if !ok {
			d.Added = append(d.Added, g)
			continue
		}
		if old.Directory != g.Directory || old.ImagePath != g.ImagePath || old.Source != g.Source {
			d.Changed = append(d.Changed, Change{Before: old, After: g})
		}
	}
	for key, g := range oldByName {
		if _, ok := newByName[key]; !ok {
			d.Removed = append(d.Removed, g)
		}
	}

	byName := func(a, b Game) int {
		return strings.Compare(textutil.NormalizeName(a.Name), textutil.NormalizeName(b.Name))
	}
	slices.SortFunc(d.Added, byName)
	slices.SortFunc(d.Removed, byName)
	slices.SortFunc(d.Changed, func(a, b Change) int {
		return byName(a.After, b.After)
	})
	return d
}
