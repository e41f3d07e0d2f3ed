package proptest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"pgregory.net/rapid"

	"shelf/internal/collection"
	"shelf/internal/inventory"
)

const (
	minItems        = 0
	maxItems        = 20
	typicalMinItems = 1
	typicalMaxItems = 10
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type Harness struct {
	T   *rapid.T
	Dir string
}

func (h *Harness) GenItem() collection.Item {
	return itemGen().Draw(h.T, "item")
}

type StoreHarness struct {
	Harness
	Store *collection.SQLiteStore
	ticks int
}

// tick is a store clock that advances one second per call, so date order
// follows insertion order.
func (h *StoreHarness) tick() time.Time {
	h.ticks++
	return epoch.Add(time.Duration(h.ticks) * time.Second)
}

func (h *StoreHarness) MustCreate(item collection.Item) int64 {
	id, err := h.Store.Create(h.T.Context(), item)
	if err != nil {
		h.T.Fatalf("failed to create item: %v", err)
	}
	return id
}

func (h *StoreHarness) CreateItems(minCount, maxCount int) map[int64]collection.Item {
	created := make(map[int64]collection.Item)
	n := rapid.IntRange(minCount, maxCount).Draw(h.T, "numItems")
	for range n {
		item := h.GenItem()
		created[h.MustCreate(item)] = item
	}
	return created
}

// NewController builds a controller over the harness store and loads it.
func (h *StoreHarness) NewController() *inventory.Controller {
	ctl := inventory.New(h.Store, zap.NewNop())
	ctl.Initialize(h.T.Context())
	return ctl
}

func openStore(rt *rapid.T, path string) *collection.SQLiteStore {
	store, err := collection.NewSQLiteStore(path)
	if err != nil {
		rt.Fatalf("failed to open store: %v", err)
	}
	rt.Cleanup(func() { _ = store.Close() })
	return store
}

// newIterDir gives each rapid iteration a fresh directory so that no
// database outlives its iteration.
func newIterDir(rt *rapid.T, parent string) string {
	dir, err := os.MkdirTemp(parent, "iter-")
	if err != nil {
		rt.Fatalf("failed to create iter dir: %v", err)
	}
	return dir
}

func RunWithStore(t *testing.T, fn func(h *StoreHarness)) {
	tempDir := t.TempDir()
	rapid.Check(t, func(rt *rapid.T) {
		iterDir := newIterDir(rt, tempDir)

		h := &StoreHarness{Harness: Harness{T: rt, Dir: iterDir}}
		h.Store = openStore(rt, filepath.Join(iterDir, "collection.db")).WithClock(h.tick)
		if err := h.Store.Init(rt.Context()); err != nil {
			rt.Fatalf("failed to init store: %v", err)
		}

		fn(h)
	})
}

func RunBasic(t *testing.T, fn func(h *Harness)) {
	tempDir := t.TempDir()
	rapid.Check(t, func(rt *rapid.T) {
		iterDir := newIterDir(rt, tempDir)

		fn(&Harness{T: rt, Dir: iterDir})
	})
}
