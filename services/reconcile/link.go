package reconcile

import (
	"cmp"
	"slices"

	"github.com/antzucaro/matchr"
)

// Link pairs an index of the left list with an index of the right list.
type Link struct {
	Left        int
	Right       int
	Correlation float64
}

// CreateLinks pairs up two lists of keys one to one. Equal keys are linked
// first with a correlation of 1. The remaining keys are then linked most
// similar pair first by Jaro-Winkler similarity, ties going to the lower
// left index. Empty keys and pairs with no similarity are never linked.
func CreateLinks(left, right []string) []Link {
	var result []Link
	linkedLeft := make(map[int]struct{})
	linkedRight := make(map[int]struct{})

	for l, lkey := range left {
		if lkey == "" {
			continue
		}
		for r, rkey := range right {
			_, taken := linkedRight[r]
			if taken || lkey != rkey {
				continue
			}
			result = append(result, Link{Left: l, Right: r, Correlation: 1})
			linkedLeft[l] = struct{}{}
			linkedRight[r] = struct{}{}
			break
		}
	}

	var candidates []Link
	for l, lkey := range left {
		_, linked := linkedLeft[l]
		if linked || lkey == "" {
			continue
		}
		for r, rkey := range right {
			_, taken := linkedRight[r]
			if taken || rkey == "" {
				continue
			}
			similarity := matchr.JaroWinkler(lkey, rkey, false)
			if similarity > 0 {
				candidates = append(candidates, Link{Left: l, Right: r, Correlation: similarity})
			}
		}
	}
	slices.SortStableFunc(candidates, func(a, b Link) int {
		return cmp.Compare(b.Correlation, a.Correlation)
	})

	for _, c := range candidates {
		_, linked := linkedLeft[c.Left]
		_, taken := linkedRight[c.Right]
		if linked || taken {
			continue
		}
		result = append(result, c)
		linkedLeft[c.Left] = struct{}{}
		linkedRight[c.Right] = struct{}{}
	}

	return result
}
