package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

func IndexOf(games []Game, pred func(Game) bool) int {
	return slices.IndexFunc(games, pred)
}

func Find(games []Game, pred func(Game) bool) (Game, bool) {
	i := IndexOf(games, pred)
	if i < 0 {
		return Game{}, false
	}
	return games[i], true
}

// RemoveWhere splits games into the entries that are kept and the entries
// that match pred. Order is preserved in both.
func RemoveWhere(games []Game, pred func(Game) bool) (kept, removed []Game) {
	kept = make([]Game, 0, len(games))
	for _, g := range games {
		if pred(g) {
			removed = append(removed, g)
			continue
		}
		kept = append(kept, g)
	}
	return kept, removed
}

// SameGame reports whether two entries refer to the same game: same
// directory, or same name ignoring case.
func SameGame(a, b Game) bool {
	if a.Directory != "" && a.Directory == b.Directory {
		return true
	}
	return a.Name != "" && strings.EqualFold(
		strings.TrimSpace(a.Name),
		strings.TrimSpace(b.Name),
	)
}

// Upsert replaces the first entry that is the same game as g, or appends g.
// The replaced entry is returned when there was one.
func Upsert(games []Game, g Game) ([]Game, *Game) {
	i := IndexOf(games, func(existing Game) bool {
		return SameGame(existing, g)
	})
	if i < 0 {
		return append(games, g), nil
	}
	replaced := games[i]
	out := slices.Clone(games)
	out[i] = g
	return out, &replaced
}

// SortByName orders games by name using English collation, so that case
// and accents sort the way a reader expects. Ties keep their order.
func SortByName(games []Game) {
	c := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(games, func(a, b Game) int {
		return c.CompareString(a.Name, b.Name)
	})
}

// CountBySource tallies entries per source; entries without one are
// counted under "".
func CountBySource(games []Game) map[string]int {
	out := map[string]int{}
	for _, g := range games {
		out[g.Source]++
	}
	return out
}
