package proptest

import (
	"context"
	"errors"
	"slices"

	"pgregory.net/rapid"

	"shelf/internal/collection"
	"shelf/internal/inventory"
)

// CollectionModel is the reference behaviour of the store: a map from id to
// item with ids handed out in increasing order.
type CollectionModel struct {
	items  map[int64]collection.Item
	lastID int64
}

func newCollectionModel() *CollectionModel {
	return &CollectionModel{items: make(map[int64]collection.Item)}
}

func (m *CollectionModel) Add(id int64, item collection.Item) error {
	if id <= m.lastID {
		return errors.New("id not above every id issued before")
	}
	m.lastID = id
	item.ID = id
	m.items[id] = item
	return nil
}

func (m *CollectionModel) Update(id int64, item collection.Item) int64 {
	old, ok := m.items[id]
	if !ok {
		return 0
	}
	item.ID = id
	item.DateAdded = old.DateAdded
	m.items[id] = item
	return 1
}

func (m *CollectionModel) Remove(id int64) int64 {
	if _, ok := m.items[id]; !ok {
		return 0
	}
	delete(m.items, id)
	return 1
}

func (m *CollectionModel) Exists(id int64) bool {
	_, ok := m.items[id]
	return ok
}

func (m *CollectionModel) IDs() []int64 {
	out := make([]int64, 0, len(m.items))
	for id := range m.items {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// UnusedIDs returns ids the model never issued or has since removed.
func (m *CollectionModel) UnusedIDs() []int64 {
	out := []int64{m.lastID + 1, m.lastID + 100}
	for id := int64(1); id <= m.lastID; id++ {
		if !m.Exists(id) {
			out = append(out, id)
		}
	}
	return out
}

// CheckedCollection drives a controller over a real store and compares
// every step against the model.
type CheckedCollection struct {
	ctl   *inventory.Controller
	store collection.Store
	model *CollectionModel
	t     *rapid.T
}

func NewCheckedCollection(t *rapid.T, store collection.Store, ctl *inventory.Controller) *CheckedCollection {
	return &CheckedCollection{ctl: ctl, store: store, model: newCollectionModel(), t: t}
}

func (c *CheckedCollection) Model() *CollectionModel {
	return c.model
}

func (c *CheckedCollection) ctx() context.Context {
	return c.t.Context()
}

func (c *CheckedCollection) Add(item collection.Item) {
	before := c.ctl.Items()
	if !c.ctl.Add(c.ctx(), item) {
		c.t.Fatalf("Add(%q) failed", item.Name)
	}
	after := c.ctl.Items()
	if len(after) != len(before)+1 {
		c.t.Fatalf("Add: cache grew from %d to %d", len(before), len(after))
	}
	// The store clock ticks, so the new item is the newest.
	added := after[0]
	if err := c.model.Add(added.ID, item); err != nil {
		c.t.Fatalf("[%s] violated: id %d: %v", InvIDNeverReused, added.ID, err)
	}
	assertItemsEqual(c.t, item, added, ignoreStoreFields)
}

func (c *CheckedCollection) Update(id int64, item collection.Item) {
	if !c.ctl.Update(c.ctx(), id, item) {
		c.t.Fatalf("Update(%d) failed", id)
	}
	c.model.Update(id, item)
}

func (c *CheckedCollection) Remove(id int64) {
	if !c.ctl.Remove(c.ctx(), id) {
		c.t.Fatalf("Remove(%d) failed", id)
	}
	c.model.Remove(id)
}

func (c *CheckedCollection) Get(id int64) {
	item, err := c.ctl.Get(c.ctx(), id)
	if !c.model.Exists(id) {
		if !errors.Is(err, collection.ErrNotFound) {
			c.t.Fatalf("Get(%d) of absent id: got %v, want ErrNotFound", id, err)
		}
		return
	}
	if err != nil {
		c.t.Fatalf("Get(%d): %v", id, err)
	}
	assertItemsEqual(c.t, c.model.items[id], item, ignoreStoreFields)
}

func (c *CheckedCollection) Refresh() {
	c.ctl.Refresh(c.ctx())
	if c.ctl.Refreshing() {
		c.t.Fatalf("still refreshing after Refresh returned")
	}
}

// Check compares cache, store and model.
func (c *CheckedCollection) Check() {
	if c.ctl.Loading() {
		c.t.Fatalf("controller still loading")
	}
	if s := c.ctl.State(); s != inventory.StateIdle {
		c.t.Fatalf("controller in state %s between operations", s)
	}

	cached := c.ctl.Items()
	stored, err := c.store.List(c.ctx())
	if err != nil {
		c.t.Fatalf("List: %v", err)
	}
	verifyListInvariants(c.t, stored)

	if len(cached) != len(stored) {
		c.t.Fatalf("[%s] violated: cache has %d items, store %d", InvCacheMatchesStore, len(cached), len(stored))
	}
	for i := range stored {
		assertItemsEqual(c.t, stored[i], cached[i])
	}

	if len(stored) != len(c.model.items) {
		c.t.Fatalf("[%s] violated: store has %d items, model %d", InvModelConsistent, len(stored), len(c.model.items))
	}
	for _, item := range stored {
		want, ok := c.model.items[item.ID]
		if !ok {
			c.t.Fatalf("[%s] violated: store has id %d the model lacks", InvModelConsistent, item.ID)
		}
		assertItemsEqual(c.t, want, item, ignoreStoreFields)
	}
}
