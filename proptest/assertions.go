package proptest

import (
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"pgregory.net/rapid"

	"shelf/internal/collection"
	"shelf/internal/prefs"
	"shelf/internal/view"
)

// ignoreStoreFields drops the fields the store assigns.
var ignoreStoreFields = cmpopts.IgnoreFields(collection.Item{}, "ID", "DateAdded")

func assertItemsEqual(t *rapid.T, expected, actual collection.Item, opts ...cmp.Option) {
	t.Helper()
	opts = append(opts, cmpopts.EquateApproxTime(0))
	if diff := cmp.Diff(expected, actual, opts...); diff != "" {
		t.Fatalf("item mismatch (-want +got):\n%s", diff)
	}
}

func ids(items []collection.Item) []int64 {
	out := make([]int64, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func assertSameIDs(t *rapid.T, expected, actual []collection.Item) {
	t.Helper()
	want, got := ids(expected), ids(actual)
	slices.Sort(want)
	slices.Sort(got)
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("id set mismatch (-want +got):\n%s", diff)
	}
}

func assertSortedBy(t *rapid.T, items []collection.Item, order prefs.SortOrder) {
	t.Helper()
	for i := 0; i < len(items)-1; i++ {
		a, b := items[i], items[i+1]
		var inOrder bool
		switch order {
		case prefs.SortByNumber:
			inOrder = view.NumberValue(a.Number) <= view.NumberValue(b.Number)
		default:
			inOrder = strings.ToLower(a.Name) <= strings.ToLower(b.Name)
		}
		if !inOrder {
			t.Fatalf("sort by %s violated at positions %d, %d: %+v then %+v", order, i, i+1, a, b)
		}
	}
}

// assertStableWithin checks that items tied under order keep the relative
// order they had in input.
func assertStableWithin(t *rapid.T, input, sorted []collection.Item, order prefs.SortOrder) {
	t.Helper()
	pos := make(map[int64]int, len(input))
	for i, item := range input {
		pos[item.ID] = i
	}
	tied := func(a, b collection.Item) bool {
		if order == prefs.SortByNumber {
			return view.NumberValue(a.Number) == view.NumberValue(b.Number)
		}
		return strings.ToLower(a.Name) == strings.ToLower(b.Name)
	}
	for i := 0; i < len(sorted)-1; i++ {
		a, b := sorted[i], sorted[i+1]
		if tied(a, b) && pos[a.ID] > pos[b.ID] {
			t.Fatalf("tie between %d and %d reordered", a.ID, b.ID)
		}
	}
}
