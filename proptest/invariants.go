package proptest

import (
	"pgregory.net/rapid"

	"shelf/internal/collection"
	"shelf/internal/view"
)

const (
	InvIDPositive          = "ids are positive"
	InvIDUnique            = "ids are unique"
	InvIDNeverReused       = "ids are never reused"
	InvNameNotEmpty        = "names are not blank"
	InvListNewestFirst     = "list is newest first"
	InvDateStamped         = "every item has a date"
	InvModelConsistent     = "store matches model"
	InvCacheMatchesStore   = "controller cache matches store"
	InvFilterSubset        = "filter result is a subset"
	InvFilterComplete      = "filter keeps every match"
	InvGroupPartition      = "groups partition the items"
	InvGroupKeysSorted     = "group keys are sorted and distinct"
	InvProjectionPure      = "projection leaves input untouched"
	InvSortPermutation     = "sort is a permutation"
	InvNormalizeIdempotent = "normalizing twice changes nothing"
)

func verifyListInvariants(t *rapid.T, items []collection.Item) {
	seen := make(map[int64]bool)
	for i, item := range items {
		if item.ID <= 0 {
			t.Fatalf("[%s] violated: item %q has id %d", InvIDPositive, item.Name, item.ID)
		}
		if seen[item.ID] {
			t.Fatalf("[%s] violated: id %d listed twice", InvIDUnique, item.ID)
		}
		seen[item.ID] = true

		if collection.ValidateName(item.Name) != nil {
			t.Fatalf("[%s] violated: item %d has name %q", InvNameNotEmpty, item.ID, item.Name)
		}
		if item.DateAdded.IsZero() {
			t.Fatalf("[%s] violated: item %d has no date", InvDateStamped, item.ID)
		}

		if i == 0 {
			continue
		}
		prev := items[i-1]
		if prev.DateAdded.Before(item.DateAdded) ||
			(prev.DateAdded.Equal(item.DateAdded) && prev.ID < item.ID) {
			t.Fatalf("[%s] violated: %d listed before newer %d", InvListNewestFirst, prev.ID, item.ID)
		}
	}
}

func verifyProjectionInvariants(t *rapid.T, items []collection.Item, query string, p view.Projection) {
	filtered := view.Filter(items, query)

	var flat []collection.Item
	if p.Grouped {
		for i, g := range p.Groups {
			if i > 0 && p.Groups[i-1].Key >= g.Key {
				t.Fatalf("[%s] violated: %q then %q", InvGroupKeysSorted, p.Groups[i-1].Key, g.Key)
			}
			for _, item := range g.Items {
				if view.GroupKey(item) != g.Key {
					t.Fatalf("[%s] violated: item %d with key %q in group %q",
						InvGroupPartition, item.ID, view.GroupKey(item), g.Key)
				}
			}
			flat = append(flat, g.Items...)
		}
	} else {
		flat = p.Items
	}

	if p.Len() != len(filtered) {
		t.Fatalf("[%s] violated: projection has %d items, filter has %d", InvGroupPartition, p.Len(), len(filtered))
	}
	assertSameIDs(t, filtered, flat)
	for _, item := range flat {
		if !view.Matches(item, query) {
			t.Fatalf("[%s] violated: item %d does not match %q", InvFilterSubset, item.ID, query)
		}
	}
}
