package reconcile

import (
	"strings"

	"gamecatalog/lib/catalog"
	"gamecatalog/lib/textutil"
	"gamecatalog/lib/zones"
)

// IsComment reports whether an entry is a comment or suggestion placeholder
// rather than a game.
func IsComment(g catalog.Game) bool {
	name := strings.ToLower(g.Name)
	dir := strings.ToLower(g.Directory)
	return strings.HasPrefix(name, zones.SpecialPrefix) ||
		strings.Contains(name, "comment") ||
		strings.Contains(name, "suggest") ||
		strings.Contains(dir, "comment") ||
		strings.Contains(dir, "suggest")
}

// Clean removes comment and suggestion entries.
func Clean(games []catalog.Game) (kept, removed []catalog.Game) {
	return catalog.RemoveWhere(games, IsComment)
}

// Prune removes entries whose name or directory contains contains, unless
// either of them also contains one of except. Matching ignores case.
func Prune(games []catalog.Game, contains string, except []string) (kept, removed []catalog.Game) {
	patterns := matchers([]string{contains})
	exceptions := matchers(except)
	return catalog.RemoveWhere(games, func(g catalog.Game) bool {
		return len(patterns) > 0 && mentions(g, patterns) && !mentions(g, exceptions)
	})
}

func matchers(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = textutil.NormalizeName(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// mentions is true when the name or the directory contains any matcher.
func mentions(g catalog.Game, words []string) bool {
	return textutil.MatchName(g.Name, words) || textutil.MatchName(g.Directory, words)
}
