// Package inventory keeps an in-memory copy of the collection in step with
// a collection.Store.
//
// Every successful mutation is followed by a full reload from the store, so
// a caller that waits for Add, Update or Remove to return sees a cache that
// includes its change. Mutations issued without waiting for the previous one
// are not ordered: their reloads may interleave and the cache ends up with
// whichever reload finished last, which is not necessarily the one for the
// most recently issued mutation.
package inventory

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"shelf/internal/collection"
)

type State int

const (
	StateIdle State = iota
	StateInitializing
	StateMutating
	StateReloading
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateMutating:
		return "mutating"
	case StateReloading:
		return "reloading"
	default:
		return "idle"
	}
}

// Snapshot is a copy of the controller state handed to observers.
type Snapshot struct {
	Items      []collection.Item
	Loading    bool
	Refreshing bool
}

// Observer is called after every completed reload. It receives a copy and
// cannot reach the controller's cache.
type Observer func(Snapshot)

type Controller struct {
	store collection.Store
	log   *zap.Logger

	mu         sync.Mutex
	items      []collection.Item
	state      State
	loading    bool
	refreshing int
	observers  []subscription
	nextObsID  int
}

type subscription struct {
	id int
	fn Observer
}

func New(store collection.Store, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		store:   store,
		log:     log.Named("inventory"),
		items:   []collection.Item{},
		loading: true,
	}
}

// Initialize prepares the store and loads the collection once. Failures are
// logged and leave the cache empty; loading ends either way.
func (c *Controller) Initialize(ctx context.Context) {
	c.setState(StateInitializing)
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.state = StateIdle
		c.mu.Unlock()
		c.notify()
	}()

	if err := c.store.Init(ctx); err != nil {
		c.log.Error("initialize store", zap.Error(err))
		return
	}
	items, err := c.store.List(ctx)
	if err != nil {
		c.log.Error("load collection", zap.Error(err))
		return
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

// Add creates item and reloads the cache. It reports false, leaving the
// cache untouched, when the store rejects the write.
//
// Writes run to completion once started: cancelling ctx does not abort
// Create, Update or Delete, only the reload that follows.
func (c *Controller) Add(ctx context.Context, item collection.Item) bool {
	c.setState(StateMutating)
	id, err := c.store.Create(context.WithoutCancel(ctx), item)
	if err != nil {
		c.log.Error("add item", zap.String("op", "create"), zap.Error(err))
		c.setState(StateIdle)
		return false
	}
	c.log.Debug("item added", zap.Int64("id", id))
	c.reload(ctx, nil)
	return true
}

func (c *Controller) Update(ctx context.Context, id int64, item collection.Item) bool {
	c.setState(StateMutating)
	n, err := c.store.Update(context.WithoutCancel(ctx), id, item)
	if err != nil {
		c.log.Error("update item", zap.String("op", "update"), zap.Int64("id", id), zap.Error(err))
		c.setState(StateIdle)
		return false
	}
	if n == 0 {
		c.log.Debug("update matched no item", zap.Int64("id", id))
	}
	c.reload(ctx, nil)
	return true
}

func (c *Controller) Remove(ctx context.Context, id int64) bool {
	c.setState(StateMutating)
	n, err := c.store.Delete(context.WithoutCancel(ctx), id)
	if err != nil {
		c.log.Error("remove item", zap.String("op", "delete"), zap.Int64("id", id), zap.Error(err))
		c.setState(StateIdle)
		return false
	}
	if n == 0 {
		c.log.Debug("remove matched no item", zap.Int64("id", id))
	}
	c.reload(ctx, nil)
	return true
}

// Get reads through to the store, so it reflects durable state even when
// the cache is stale.
func (c *Controller) Get(ctx context.Context, id int64) (collection.Item, error) {
	return c.store.Get(ctx, id)
}

// Refresh reloads the cache unconditionally. It may run concurrently with
// itself; Refreshing stays true until the last call returns. Observers see
// Refreshing raised when the refresh starts and the reloaded items with the
// flag already lowered when it ends.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.refreshing++
	c.mu.Unlock()
	c.notify()

	c.reload(ctx, func() { c.refreshing-- })
}

// reload replaces the cache with a fresh List. On failure the previous
// cache is kept. done, if set, runs under the lock before observers are
// notified.
func (c *Controller) reload(ctx context.Context, done func()) {
	c.setState(StateReloading)
	items, err := c.store.List(ctx)
	c.mu.Lock()
	if err != nil {
		c.log.Error("reload collection", zap.String("op", "list"), zap.Error(err))
	} else {
		c.items = items
	}
	c.state = StateIdle
	if done != nil {
		done()
	}
	c.mu.Unlock()
	c.notify()
}

// Items returns a copy of the cached collection.
func (c *Controller) Items() []collection.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotUnlocked()
}

func (c *Controller) snapshotUnlocked() Snapshot {
	return Snapshot{
		Items:      slices.Clone(c.items),
		Loading:    c.loading,
		Refreshing: c.refreshing > 0,
	}
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing > 0
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn and returns a function that removes it. Observers
// are called in subscription order.
func (c *Controller) Subscribe(fn Observer) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextObsID
	c.nextObsID++
	c.observers = append(c.observers, subscription{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.observers = slices.DeleteFunc(c.observers, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// notify calls observers outside the lock so that they may read the
// controller.
func (c *Controller) notify() {
	c.mu.Lock()
	snap := c.snapshotUnlocked()
	observers := slices.Clone(c.observers)
	c.mu.Unlock()

	for _, sub := range observers {
		sub.fn(Snapshot{
			Items:      slices.Clone(snap.Items),
			Loading:    snap.Loading,
			Refreshing: snap.Refreshing,
		})
	}
}
