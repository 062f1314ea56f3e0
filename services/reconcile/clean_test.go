package reconcile

import (
	"testing"

	"gamecatalog/lib/catalog"

	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	games := []catalog.Game{
		{Name: "Slope", Directory: "slope"},
		{Name: "[!] Read me", Directory: "readme"},
		{Name: "Game Suggestions", Directory: "suggestions"},
		{Name: "Chat", Directory: "comments"},
		{Name: "Recommended", Directory: "user-comment-box"},
		{Name: "Cookie Clicker", Directory: "cookie-clicker"},
	}
	kept, removed := Clean(games)
	require.Equal(t, []catalog.Game{games[0], games[5]}, kept)
	require.Len(t, removed, 4)
}

func TestPrune(t *testing.T) {
	games := []catalog.Game{
		{Name: "Minecraft 1.5.2"},
		{Name: "Minecraft Indev"},
		{Name: "minecraft classic"},
		{Name: "Slope"},
	}
	kept, removed := Prune(games, "Minecraft", []string{"indev", ""})
	require.Equal(t, []catalog.Game{games[1], games[3]}, kept)
	require.Equal(t, []catalog.Game{games[0], games[2]}, removed)

	kept, removed = Prune(games, "  ", nil)
	require.Equal(t, games, kept)
	require.Empty(t, removed)
}

func TestPruneMatchesDirectory(t *testing.T) {
	games := []catalog.Game{
		{Name: "Eaglercraft", Directory: "minecraft-1.8"},
		{Name: "Classic Indev Build", Directory: "minecraft-indev"},
		{Name: "Slope", Directory: "slope"},
	}
	kept, removed := Prune(games, "minecraft", []string{"Indev"})
	require.Equal(t, []catalog.Game{games[1], games[2]}, kept)
	require.Equal(t, []catalog.Game{games[0]}, removed)
}
