package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	before := []Game{
		{Name: "Slope", Directory: "slope"},
		{Name: "Retro Bowl", Directory: "retro-bowl"},
		{Name: "Drift Boss", Directory: "drift-boss"},
	}
	after := []Game{
		{Name: "slope", Directory: "slope"},
		{Name: "Retro Bowl", Directory: "retrobowl"},
		{Name: "Cookie Clicker", Directory: "cookie-clicker"},
		{Name: "Bitlife", Directory: "bitlife"},
	}

	d := Compare(before, after)
	expected := Diff{
		Added: []Game{
			{Name: "Bitlife", Directory: "bitlife"},
			{Name: "Cookie Clicker", Directory: "cookie-clicker"},
		},
		Removed: []Game{
			{Name: "Drift Boss", Directory: "drift-boss"},
		},
		Changed: []Change{{
			Before: Game{Name: "Retro Bowl", Directory: "retro-bowl"},
			After:  Game{Name: "Retro Bowl", Directory: "retrobowl"},
		}},
		Before: 3,
		After:  4,
	}
	if diff := cmp.Diff(expected, d); diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, 1, d.Delta())
	require.False(t, d.Empty())
}

func TestCompareIdentical(t *testing.T) {
	games := []Game{{Name: "Slope", Directory: "slope"}}
	d := Compare(games, games)
	require.True(t, d.Empty())
	require.Zero(t, d.Delta())
}
