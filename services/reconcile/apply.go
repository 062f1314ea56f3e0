package reconcile

import (
	"gamecatalog/lib/catalog"
	"gamecatalog/lib/textutil"
	"gamecatalog/lib/zones"
)

type Change struct {
	Field string
	Old   string
	New   string
}

// Apply brings g in line with its zone and returns what changed.
func Apply(g *catalog.Game, z zones.Zone, endpoints zones.Endpoints) []Change {
	var changes []Change
	set := func(field string, current *string, value string) {
		if *current == value {
			return
		}
		changes = append(changes, Change{Field: field, Old: *current, New: value})
		*current = value
	}

	set("name", &g.Name, z.Name)
	set("imagePath", &g.ImagePath, endpoints.CoverURL(z.ID))
	set("directory", &g.Directory, textutil.DirectoryName(z.Name))
	if z.Author != "" {
		set("author", &g.Author, z.Author)
	}
	if z.AuthorLink != "" {
		set("authorLink", &g.AuthorLink, z.AuthorLink)
	}
	if g.Image != "" {
		set("image", &g.Image, catalog.DefaultImage)
	}
	return changes
}

// Changed returns the change made to field, if any.
func Changed(changes []Change, field string) (Change, bool) {
	for _, c := range changes {
		if c.Field == field {
			return c, true
		}
	}
	return Change{}, false
}
