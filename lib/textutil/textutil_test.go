package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareKey(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{name: "Cookie Clicker", expected: "cookie-clicker"},
		{name: "Slope 2 (Unblocked)", expected: "slope"},
		{name: "Escape Road v1.2 beta", expected: "escape-road"},
		{name: "Drift Boss [Mobile]", expected: "drift-boss"},
		{name: "Five Nights at Freddy's", expected: "five-nights-at-freddy-s"},
		{name: "2048", expected: "2048"},
		{name: "  --Bad--  ", expected: "bad"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, CompareKey(test.name), test.name)
	}
}

func TestDirectoryName(t *testing.T) {
	require.Equal(t, "ragdoll-hit", DirectoryName("Ragdoll Hit"))
	require.Equal(t, "five-nights-at-freddy-s-4", DirectoryName("Five Nights at Freddy's 4"))
	require.Equal(t, "", DirectoryName("!!!"))
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "five-nights-at-freddys", Slugify("Five Nights at Freddy's"))
	require.Equal(t, "a-b", Slugify("  a -- b  "))
	require.Equal(t, "level-devil", Slugify("Level Devil!"))
}

func TestLooseKey(t *testing.T) {
	require.Equal(t, "five nights at freddys", LooseKey("  Five  Nights at Freddy's "))
	require.Equal(t, LooseKey("Level Devil!"), LooseKey("level devil"))
}

func TestSafeDirName(t *testing.T) {
	require.Equal(t, "super-game-3d", SafeDirName("Super Game: 3D!", 0))
	require.Equal(t, "super", SafeDirName("Super Game", 5))
}

func TestSanitizeFilename(t *testing.T) {
	require.Equal(t, "deadly_descent.html", SanitizeFilename("Deadly Descent.html"))
}

func TestMatchName(t *testing.T) {
	require.True(t, MatchName("Minecraft Classic", []string{"minecraft"}))
	require.False(t, MatchName("Eaglercraft", []string{"minecraft"}))
}
