package reconcile

import (
	"testing"

	"gamecatalog/lib/catalog"

	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	games := []catalog.Game{
		{Name: "Slope!", Directory: "slope"},
		{Name: "retro bowl college", Directory: "retro-bowl-college"},
	}
	opts := MergeOptions{Source: "non-semag", Endpoints: testEndpoints}
	merged, added, skipped := Merge(games, testZones(), opts)

	require.Equal(t, []catalog.Game{
		{Name: "Driven Wild", Directory: "driven-wild", Image: "cover.png", ImagePath: "https://covers.test/43.png", Source: "non-semag", Author: "Noodlecake", AuthorLink: "https://noodlecake.com"},
		{Name: "Ragdoll Hit", Directory: "ragdoll-hit", Image: "cover.png", ImagePath: "https://covers.test/44.png", Source: "non-semag"},
		{Name: "Cookie Clicker", Directory: "cookie-clicker", Image: "cover.png", ImagePath: "https://covers.test/50.png", Source: "non-semag"},
		{Name: "Geometry Dash Lite", Directory: "geometry-dash-lite", Image: "80.png", ImagePath: "https://covers.test/80.png", Source: "non-semag"},
	}, added)
	require.Equal(t, 4, skipped)
	require.Len(t, merged, 6)

	names := make([]string, len(merged))
	for i, g := range merged {
		names[i] = g.Name
	}
	require.Equal(t, []string{
		"Cookie Clicker", "Driven Wild", "Geometry Dash Lite",
		"Ragdoll Hit", "retro bowl college", "Slope!",
	}, names)
}

func TestMergeFeaturedOnly(t *testing.T) {
	_, added, skipped := Merge(nil, testZones(), MergeOptions{Endpoints: testEndpoints, FeaturedOnly: true})
	require.Len(t, added, 2)
	require.Equal(t, "Ragdoll Hit", added[0].Name)
	require.Equal(t, "Cookie Clicker", added[1].Name)
	require.Zero(t, skipped)
}

func TestMissing(t *testing.T) {
	missing := Missing([]catalog.Game{{Name: "SLOPE"}}, testZones(), false)
	ids := make([]int, len(missing))
	for i, z := range missing {
		ids[i] = z.ID
	}
	require.Equal(t, []int{43, 44, 50, 60, 80}, ids)
}
