package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCreateLinks(t *testing.T) {
	testCases := []struct {
		left  []string
		right []string
		// a zero Correlation is not compared
		expected []Link
	}{
		{
			left:  []string{"a", "b", "c"},
			right: []string{"a", "b"},
			expected: []Link{
				{Left: 0, Right: 0, Correlation: 1},
				{Left: 1, Right: 1, Correlation: 1},
			},
		},
		{
			left:  []string{"foo", "bar", "baz"},
			right: []string{"foob", "bar", "barr"},
			expected: []Link{
				{Left: 1, Right: 1, Correlation: 1},
				{Left: 2, Right: 2},
				{Left: 0, Right: 0},
			},
		},
		{
			left:     []string{"foo", "bar", "baz"},
			right:    []string{},
			expected: nil,
		},
		{
			left:     []string{},
			right:    []string{},
			expected: nil,
		},
		{
			left:  []string{"foo", "bar", "baz"},
			right: []string{"baa"},
			expected: []Link{
				{Left: 1, Right: 0},
			},
		},
		{
			left:  []string{"", "slope"},
			right: []string{"", "slope"},
			expected: []Link{
				{Left: 1, Right: 1, Correlation: 1},
			},
		},
		{
			left:  []string{"slope", "slope"},
			right: []string{"slope"},
			expected: []Link{
				{Left: 0, Right: 0, Correlation: 1},
			},
		},
	}

	for _, test := range testCases {
		links := CreateLinks(test.left, test.right)
		for i, l := range links {
			for _, e := range test.expected {
				if e.Left == l.Left && e.Correlation == 0 {
					links[i].Correlation = 0
				}
			}
		}
		diff := cmp.Diff(
			test.expected,
			links,
			cmpopts.SortSlices(func(a, b Link) bool {
				return a.Left < b.Left
			}),
		)
		if diff != "" {
			t.Fatal(diff)
		}
	}
}
