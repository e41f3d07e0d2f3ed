package collection_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"shelf/internal/collection"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFixedNow = time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *collection.SQLiteStore {
	t.Helper()
	s, err := collection.NewSQLiteStore(filepath.Join(t.TempDir(), "shelf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Init(context.Background()))
	return s
}

// tickingClock returns a clock that advances one second per call.
func tickingClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func vader() collection.Item {
	return collection.Item{
		Name:          "Darth Vader",
		Series:        "Star Wars",
		Number:        "343",
		Barcode:       "889698472367",
		ImageRef:      "file:///photos/vader.jpg",
		Notes:         "bobble head",
		PurchasePrice: "12.99",
	}
}

var ignoreStoreFields = cmpopts.IgnoreFields(collection.Item{}, "ID", "DateAdded")

func TestSQLiteStore_Create(t *testing.T) {
	t.Run("round trips every field except id and date", func(t *testing.T) {
		s := newTestStore(t)
		ctx := context.Background()

		id, err := s.Create(ctx, vader())
		require.NoError(t, err)

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		if diff := cmp.Diff(vader(), got, ignoreStoreFields); diff != "" {
			t.Fatalf("item mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("stamps date added from the store clock", func(t *testing.T) {
		s := newTestStore(t).WithClock(func() time.Time { return testFixedNow })
		ctx := context.Background()

		item := vader()
		item.DateAdded = testFixedNow.Add(-48 * time.Hour)
		id, err := s.Create(ctx, item)
		require.NoError(t, err)

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.DateAdded.Equal(testFixedNow), "got %v", got.DateAdded)
	})

	t.Run("keeps absent optional fields empty", func(t *testing.T) {
		s := newTestStore(t)
		ctx := context.Background()

		id, err := s.Create(ctx, collection.NewItem("Groot"))
		require.NoError(t, err)

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Groot", got.Name)
		assert.Empty(t, got.Series)
		assert.Empty(t, got.Number)
		assert.Empty(t, got.PurchasePrice)
	})

	t.Run("never reuses a deleted id", func(t *testing.T) {
		s := newTestStore(t)
		ctx := context.Background()

		first, err := s.Create(ctx, collection.NewItem("one"))
		require.NoError(t, err)
		_, err = s.Delete(ctx, first)
		require.NoError(t, err)

		second, err := s.Create(ctx, collection.NewItem("two"))
		require.NoError(t, err)

		assert.Greater(t, second, first)
	})
}

func TestSQLiteStore_List(t *testing.T) {
	t.Run("orders most recent first", func(t *testing.T) {
		s := newTestStore(t).WithClock(tickingClock(testFixedNow))
		ctx := context.Background()

		for _, name := range []string{"first", "second", "third"} {
			_, err := s.Create(ctx, collection.NewItem(name))
			require.NoError(t, err)
		}

		items, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "third", items[0].Name)
		assert.Equal(t, "second", items[1].Name)
		assert.Equal(t, "first", items[2].Name)
	})

	t.Run("orders legacy dates by time, not by text", func(t *testing.T) {
		s := newTestStore(t).WithClock(func() time.Time {
			return time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
		})
		ctx := context.Background()

		_, err := s.Create(ctx, collection.NewItem("early"))
		require.NoError(t, err)
		_, err = s.DB().Exec(`INSERT INTO items (name, date_added) VALUES ('late', '2024-01-01 23:00:00')`)
		require.NoError(t, err)

		items, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "late", items[0].Name)
		assert.Equal(t, "early", items[1].Name)
	})

	t.Run("returns empty slice when collection is empty", func(t *testing.T) {
		s := newTestStore(t)

		items, err := s.List(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("returns a snapshot unaffected by later writes", func(t *testing.T) {
		s := newTestStore(t)
		ctx := context.Background()
		_, err := s.Create(ctx, collection.NewItem("before"))
		require.NoError(t, err)

		snapshot, err := s.List(ctx)
		require.NoError(t, err)
		_, err = s.Create(ctx, collection.NewItem("after"))
		require.NoError(t, err)

		assert.Len(t, snapshot, 1)
	})
}

func TestSQLiteStore_Get(t *testing.T) {
	t.Run("returns ErrNotFound for an unknown id", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.Get(context.Background(), 42)

		assert.ErrorIs(t, err, collection.ErrNotFound)
		var storageErr *collection.StorageError
		assert.False(t, errors.As(err, &storageErr))
	})
}

func TestSQLiteStore_Update(t *testing.T) {
	t.Run("overwrites mutable fields and keeps id and date", func(t *testing.T) {
		s := newTestStore(t).WithClock(func() time.Time { return testFixedNow })
		ctx := context.Background()
		id, err := s.Create(ctx, vader())
		require.NoError(t, err)

		patch := collection.Item{ID: 999, Name: "Anakin", Number: "1", DateAdded: time.Unix(0, 0)}
		n, err := s.Update(ctx, id, patch)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.True(t, got.DateAdded.Equal(testFixedNow))
		if diff := cmp.Diff(patch, got, ignoreStoreFields); diff != "" {
			t.Fatalf("item mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("returns zero for an unknown id", func(t *testing.T) {
		s := newTestStore(t)

		n, err := s.Update(context.Background(), 7, collection.NewItem("ghost"))

		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestSQLiteStore_Delete(t *testing.T) {
	t.Run("removes existing item", func(t *testing.T) {
		s := newTestStore(t)
		ctx := context.Background()
		id, err := s.Create(ctx, vader())
		require.NoError(t, err)

		n, err := s.Delete(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = s.Get(ctx, id)
		assert.ErrorIs(t, err, collection.ErrNotFound)
	})

	t.Run("returns zero for an unknown id", func(t *testing.T) {
		s := newTestStore(t)

		n, err := s.Delete(context.Background(), 7)

		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestSQLiteStore_Unavailable(t *testing.T) {
	s, err := collection.NewSQLiteStore(filepath.Join(t.TempDir(), "shelf.db"))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Close())

	cases := map[string]func() error{
		"create": func() error { _, err := s.Create(ctx, vader()); return err },
		"list":   func() error { _, err := s.List(ctx); return err },
		"get":    func() error { _, err := s.Get(ctx, 1); return err },
		"update": func() error { _, err := s.Update(ctx, 1, vader()); return err },
		"delete": func() error { _, err := s.Delete(ctx, 1); return err },
		"init":   func() error { return s.Init(ctx) },
	}
	for op, call := range cases {
		t.Run(op+" reports a storage error naming the operation", func(t *testing.T) {
			err := call()

			var storageErr *collection.StorageError
			require.ErrorAs(t, err, &storageErr)
			assert.Equal(t, op, storageErr.Op)
		})
	}
}

func TestScenario_DarthVader(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, collection.Item{Name: "Darth Vader", Number: "343", Barcode: "889698472367"})
	require.NoError(t, err)

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Darth Vader", items[0].Name)
}
