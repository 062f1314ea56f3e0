package reconcile

import (
	"path"
	"strings"

	"gamecatalog/lib/catalog"
	"gamecatalog/lib/textutil"
	"gamecatalog/lib/zones"
)

type MergeOptions struct {
	Source    string
	Endpoints zones.Endpoints
	// FeaturedOnly limits merging to zones flagged as featured.
	FeaturedOnly bool
}

// Missing lists the playable zones that have no catalog entry with the
// same name, ignoring case and punctuation. Zones repeating a name are
// listed once.
func Missing(games []catalog.Game, zs []zones.Zone, featuredOnly bool) []zones.Zone {
	have := make(map[string]struct{}, len(games))
	for _, g := range games {
		have[textutil.LooseKey(g.Name)] = struct{}{}
	}
	var out []zones.Zone
	for _, z := range zs {
		if !z.Playable() || (featuredOnly && !z.Featured) {
			continue
		}
		key := textutil.LooseKey(z.Name)
		if key == "" {
			continue
		}
		if _, ok := have[key]; ok {
			continue
		}
		have[key] = struct{}{}
		out = append(out, z)
	}
	return out
}

// coverFile is the file name of a zone's cover, falling back to cover.png.
func coverFile(z zones.Zone) string {
	if z.Cover == "" {
		return catalog.DefaultImage
	}
	name := path.Base(z.Cover)
	if name == "." || name == "/" || strings.Contains(name, "{") {
		return catalog.DefaultImage
	}
	return name
}

// NewEntry is the catalog entry for a zone that was not in the catalog yet.
func NewEntry(z zones.Zone, source string, endpoints zones.Endpoints) catalog.Game {
	return catalog.Game{
		Name:       z.Name,
		Directory:  textutil.Slugify(z.Name),
		Image:      coverFile(z),
		ImagePath:  endpoints.CoverURL(z.ID),
		Source:     source,
		Author:     z.Author,
		AuthorLink: z.AuthorLink,
	}
}

// Merge adds an entry for every zone missing from the catalog and returns
// the catalog sorted by name. skipped counts the zones that were already
// present or are not games.
func Merge(games []catalog.Game, zs []zones.Zone, opts MergeOptions) (merged, added []catalog.Game, skipped int) {
	for _, z := range Missing(games, zs, opts.FeaturedOnly) {
		added = append(added, NewEntry(z, opts.Source, opts.Endpoints))
	}

	considered := 0
	for _, z := range zs {
		if !opts.FeaturedOnly || z.Featured {
			considered++
		}
	}
	skipped = considered - len(added)

	merged = make([]catalog.Game, 0, len(games)+len(added))
	merged = append(merged, games...)
	merged = append(merged, added...)
	catalog.SortByName(merged)
	return merged, added, skipped
}
