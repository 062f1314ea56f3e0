package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindDuplicates(t *testing.T) {
	games := []Game{
		{Name: "Slope", Directory: "slope", ImagePath: "covers/12.png"},
		{Name: "slope ", Directory: "slope-2", ImagePath: "covers/12.png"},
		{Name: "Retro Bowl", Directory: "retro-bowl"},
		{Name: "Retro Bowl College", Directory: "Retro-Bowl"},
		{Name: "SLOPE", Directory: "slope-3"},
		{Name: "Drift Boss"},
	}
	report := FindDuplicates(games)
	require.Equal(t, 6, report.Total)
	require.False(t, report.Clean())

	names := report.Groups[KeyName]
	require.Len(t, names, 1)
	require.Equal(t, "slope", names[0].Value)
	require.Len(t, names[0].Members, 3)
	require.Equal(t, []int{0, 1, 4}, []int{
		names[0].Members[0].Index,
		names[0].Members[1].Index,
		names[0].Members[2].Index,
	})

	dirs := report.Groups[KeyDirectory]
	require.Len(t, dirs, 1)
	require.Equal(t, "retro-bowl", dirs[0].Value)

	images := report.Groups[KeyImagePath]
	require.Len(t, images, 1)
	require.Len(t, images[0].Members, 2)

	require.Equal(t, 3, report.ExtraEntries())
}

func TestFindDuplicatesOrdering(t *testing.T) {
	games := []Game{
		{Name: "b"}, {Name: "b"},
		{Name: "a"}, {Name: "a"},
		{Name: "c"}, {Name: "c"}, {Name: "c"},
	}
	groups := FindDuplicates(games).Groups[KeyName]
	require.Len(t, groups, 3)
	require.Equal(t, "c", groups[0].Value)
	require.Equal(t, "a", groups[1].Value)
	require.Equal(t, "b", groups[2].Value)
}

func TestFindDuplicatesClean(t *testing.T) {
	report := FindDuplicates([]Game{
		{Name: "Slope", Directory: "slope"},
		{Name: "Drift Boss", Directory: "drift-boss"},
	})
	require.True(t, report.Clean())
	require.Zero(t, report.ExtraEntries())
}

func TestDedupe(t *testing.T) {
	games := []Game{
		{Name: "Slope", Directory: "slope", ImagePath: "covers/12.png"},
		{Name: "Slope Mirror", Directory: "slope"},
		{Name: "slope", Directory: "slope-2"},
		{Name: "Slope Remix", Directory: "slope-remix", ImagePath: "covers/12.png"},
		{Name: "Drift Boss", Directory: "drift-boss"},
	}

	kept, removed := Dedupe(games)
	require.Equal(t, []Game{games[0], games[4]}, kept)
	require.Len(t, removed, 3)

	kept, removed = Dedupe(games, KeyDirectory)
	require.Equal(t, []Game{games[0], games[2], games[3], games[4]}, kept)
	require.Equal(t, []Game{games[1]}, removed)
}

func TestDedupeIgnoresEmptyValues(t *testing.T) {
	games := []Game{
		{Name: "A"},
		{Name: "B"},
	}
	kept, removed := Dedupe(games)
	require.Len(t, kept, 2)
	require.Empty(t, removed)
}
