// Package view derives the displayed collection from raw items, a search
// query and the display preferences. Everything here is a pure function of
// its arguments: inputs are never modified and equal inputs give equal
// outputs.
package view

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"shelf/internal/collection"
	"shelf/internal/prefs"
)

// UnknownSeries is the group key for items without a series.
const UnknownSeries = "Unknown"

type Group struct {
	Key   string
	Items []collection.Item
}

// Projection is either a flat list (Grouped false, Items set) or a list of
// series groups (Grouped true, Groups set).
type Projection struct {
	Grouped bool
	Items   []collection.Item
	Groups  []Group
}

// Len is the number of items in the projection regardless of shape.
func (p Projection) Len() int {
	if !p.Grouped {
		return len(p.Items)
	}
	n := 0
	for _, g := range p.Groups {
		n += len(g.Items)
	}
	return n
}

func (p Projection) IsEmpty() bool {
	return p.Len() == 0
}

func Project(items []collection.Item, query string, p prefs.Preferences) Projection {
	sorted := Sort(Filter(items, query), p.SortOrder)
	if !p.GroupBySeries {
		return Projection{Items: sorted}
	}
	return Projection{Grouped: true, Groups: GroupBySeries(sorted)}
}

// Matches reports whether item passes the search query: the name contains
// it ignoring case, or the number contains it verbatim.
func Matches(item collection.Item, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(item.Name), strings.ToLower(query)) {
		return true
	}
	return strings.Contains(item.Number, query)
}

func Filter(items []collection.Item, query string) []collection.Item {
	results := make([]collection.Item, 0, len(items))
	for _, item := range items {
		if Matches(item, query) {
			results = append(results, item)
		}
	}
	return results
}

// Sort returns a sorted copy. The sort is stable, so ties keep the input
// order.
func Sort(items []collection.Item, order prefs.SortOrder) []collection.Item {
	sorted := slices.Clone(items)
	switch order {
	case prefs.SortByNumber:
		slices.SortStableFunc(sorted, func(a, b collection.Item) int {
			na, nb := NumberValue(a.Number), NumberValue(b.Number)
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			}
			return 0
		})
	default:
		slices.SortStableFunc(sorted, func(a, b collection.Item) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	}
	return sorted
}

// NumberValue parses an item number for sorting. Blank or non-numeric
// numbers count as zero and so tie with a literal "0".
func NumberValue(number string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

func GroupKey(item collection.Item) string {
	key := strings.TrimSpace(item.Series)
	if key == "" {
		return UnknownSeries
	}
	return key
}

// GroupBySeries partitions items by GroupKey. Groups are ordered by key and keep
// the order of items within each group.
func GroupBySeries(items []collection.Item) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, item := range items {
		key := GroupKey(item)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	slices.SortFunc(groups, func(a, b Group) int {
		return strings.Compare(a.Key, b.Key)
	})
	return groups
}
