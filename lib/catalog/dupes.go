package catalog

import (
	"cmp"
	"slices"
	"strings"

	"gamecatalog/lib/textutil"
)

type Key string

const (
	KeyName      Key = "name"
	KeyDirectory Key = "directory"
	KeyImagePath Key = "imagePath"
)

var AllKeys = []Key{KeyName, KeyDirectory, KeyImagePath}

// KeyOf returns the value an entry is grouped by for the given key. Empty
// means the entry does not take part in that check.
func KeyOf(g Game, key Key) string {
	switch key {
	case KeyName:
		return textutil.NormalizeName(g.Name)
	case KeyDirectory:
		return strings.TrimSpace(strings.ToLower(g.Directory))
	case KeyImagePath:
		return strings.TrimSpace(g.ImagePath)
	}
	return ""
}

type Member struct {
	Index int
	Game  Game
}

type Group struct {
	Key     Key
	Value   string
	Members []Member
}

type Report struct {
	Total  int
	Groups map[Key][]Group
}

// FindDuplicates groups entries that share a name, directory or image path.
// Only groups with more than one member are reported; they are ordered by
// size, largest first, then by value.
func FindDuplicates(games []Game) Report {
	report := Report{
		Total:  len(games),
		Groups: map[Key][]Group{},
	}

	for _, key := range AllKeys {
		var order []string
		members := map[string][]Member{}
		for i, g := range games {
			value := KeyOf(g, key)
			if value == "" {
				continue
			}
			if _, seen := members[value]; !seen {
				order = append(order, value)
			}
			members[value] = append(members[value], Member{Index: i, Game: g})
		}

		var groups []Group
		for _, value := range order {
			if len(members[value]) < 2 {
				continue
			}
			groups = append(groups, Group{Key: key, Value: value, Members: members[value]})
		}
		slices.SortStableFunc(groups, func(a, b Group) int {
			if c := cmp.Compare(len(b.Members), len(a.Members)); c != 0 {
				return c
			}
			return cmp.Compare(a.Value, b.Value)
		})
		report.Groups[key] = groups
	}

	return report
}

func (r Report) Clean() bool {
	for _, groups := range r.Groups {
		if len(groups) > 0 {
			return false
		}
	}
	return true
}

// ExtraEntries counts the surplus entries of name and directory groups.
// Image path groups are left out: different games legitimately share a
// placeholder cover.
func (r Report) ExtraEntries() int {
	total := 0
	for _, key := range []Key{KeyName, KeyDirectory} {
		for _, g := range r.Groups[key] {
			total += len(g.Members) - 1
		}
	}
	return total
}

// Dedupe keeps the first occurrence of every game and drops any later entry
// that collides with an already kept entry on one of keys. With no keys all
// of AllKeys are used.
func Dedupe(games []Game, keys ...Key) (kept, removed []Game) {
	if len(keys) == 0 {
		keys = AllKeys
	}
	seen := make(map[Key]map[string]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = map[string]struct{}{}
	}

	kept = make([]Game, 0, len(games))
	for _, g := range games {
		duplicate := false
		for _, k := range keys {
			value := KeyOf(g, k)
			if value == "" {
				continue
			}
			if _, ok := seen[k][value]; ok {
				duplicate = true
				break
			}
		}
		if duplicate {
			removed = append(removed, g)
			continue
		}
		for _, k := range keys {
			value := KeyOf(g, k)
			if value != "" {
				seen[k][value] = struct{}{}
			}
		}
		kept = append(kept, g)
	}
	return kept, removed
}
