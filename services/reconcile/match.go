package reconcile

import (
	"strings"

	"gamecatalog/lib/catalog"
	"gamecatalog/lib/zones"
)

// Kind records how an entry was matched to its zone.
type Kind string

const (
	KindID         Kind = "id"
	KindName       Kind = "name"
	KindNormalized Kind = "normalized"
	KindFuzzy      Kind = "fuzzy"
)

// Match finds the registry zone of a catalog entry. The zone id in the
// entry's cover URL wins, then the exact name ignoring case, then the
// compare key of the name.
func Match(g catalog.Game, registry *zones.Registry) (zones.Zone, Kind, bool) {
	if id, ok := zones.ExtractZoneID(g.ImagePath); ok {
		if z, ok := registry.ByID(id); ok {
			return z, KindID, true
		}
	}
	name := strings.TrimSpace(g.Name)
	if name == "" {
		return zones.Zone{}, "", false
	}
	if z, ok := registry.ByLowerName(name); ok {
		return z, KindName, true
	}
	if z, ok := registry.ByCompareKey(name); ok {
		return z, KindNormalized, true
	}
	return zones.Zone{}, "", false
}
