package collection_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"shelf/internal/collection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRawStore(t *testing.T) *collection.SQLiteStore {
	t.Helper()
	s, err := collection.NewSQLiteStore(filepath.Join(t.TempDir(), "shelf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type columnInfo struct {
	Name    string
	Type    string
	NotNull bool
}

func describeItems(t *testing.T, s *collection.SQLiteStore) []columnInfo {
	t.Helper()
	rows, err := s.DB().Query(`SELECT name, type, "notnull" FROM pragma_table_info('items') ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var cols []columnInfo
	for rows.Next() {
		var c columnInfo
		require.NoError(t, rows.Scan(&c.Name, &c.Type, &c.NotNull))
		cols = append(cols, c)
	}
	require.NoError(t, rows.Err())
	return cols
}

func columnNames(cols []columnInfo) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

var wantColumns = []string{
	"barcode", "date_added", "id", "image_uri", "name", "notes", "number", "purchase_price", "series",
}

func TestInit(t *testing.T) {
	t.Run("creates the full schema on an empty database", func(t *testing.T) {
		s := openRawStore(t)

		require.NoError(t, s.Init(context.Background()))

		assert.Equal(t, wantColumns, columnNames(describeItems(t, s)))
	})

	t.Run("running twice yields the same schema", func(t *testing.T) {
		s := openRawStore(t)
		ctx := context.Background()

		require.NoError(t, s.Init(ctx))
		once := describeItems(t, s)
		require.NoError(t, s.Init(ctx))
		require.NoError(t, s.Init(ctx))

		assert.Equal(t, once, describeItems(t, s))
	})

	t.Run("adds purchase_price to a legacy table without losing rows", func(t *testing.T) {
		s := openRawStore(t)
		ctx := context.Background()
		_, err := s.DB().Exec(`CREATE TABLE items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			series TEXT,
			number TEXT,
			barcode TEXT,
			image_uri TEXT,
			date_added TEXT DEFAULT CURRENT_TIMESTAMP,
			notes TEXT
		)`)
		require.NoError(t, err)
		_, err = s.DB().Exec(`INSERT INTO items (name, number, date_added) VALUES ('Groot', '49', '2023-05-01 10:00:00')`)
		require.NoError(t, err)

		require.NoError(t, s.Init(ctx))
		require.NoError(t, s.Init(ctx))

		assert.Equal(t, wantColumns, columnNames(describeItems(t, s)))
		items, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Groot", items[0].Name)
		assert.Equal(t, "49", items[0].Number)
		assert.Empty(t, items[0].PurchasePrice)
		assert.True(t, items[0].DateAdded.Equal(time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)), "got %v", items[0].DateAdded)
	})

	t.Run("finishes a partially migrated table", func(t *testing.T) {
		s := openRawStore(t).WithClock(func() time.Time { return testFixedNow })
		ctx := context.Background()
		// A previous run added date_added but died before backfilling it,
		// and never reached notes or purchase_price.
		_, err := s.DB().Exec(`CREATE TABLE items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			series TEXT,
			number TEXT,
			barcode TEXT,
			image_uri TEXT
		)`)
		require.NoError(t, err)
		_, err = s.DB().Exec(`INSERT INTO items (name) VALUES ('Baby Yoda')`)
		require.NoError(t, err)
		_, err = s.DB().Exec(`ALTER TABLE items ADD COLUMN date_added TEXT`)
		require.NoError(t, err)

		require.NoError(t, s.Init(ctx))

		assert.Equal(t, wantColumns, columnNames(describeItems(t, s)))
		items, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Baby Yoda", items[0].Name)
		assert.True(t, items[0].DateAdded.Equal(testFixedNow), "got %v", items[0].DateAdded)
	})

	t.Run("rewrites CURRENT_TIMESTAMP dates to the current layout", func(t *testing.T) {
		s := openRawStore(t)
		ctx := context.Background()
		require.NoError(t, s.Init(ctx))
		_, err := s.DB().Exec(`INSERT INTO items (name, date_added) VALUES ('Groot', '2023-05-01 10:00:00')`)
		require.NoError(t, err)

		require.NoError(t, s.Init(ctx))

		var raw string
		require.NoError(t, s.DB().QueryRow(`SELECT date_added FROM items`).Scan(&raw))
		assert.Equal(t, "2023-05-01T10:00:00.000000000Z", raw)
	})

	t.Run("converges to the same schema from every prior state", func(t *testing.T) {
		fresh := openRawStore(t)
		require.NoError(t, fresh.Init(context.Background()))
		want := describeItems(t, fresh)

		legacy := openRawStore(t)
		_, err := legacy.DB().Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)`)
		require.NoError(t, err)
		require.NoError(t, legacy.Init(context.Background()))

		got := describeItems(t, legacy)
		assert.Equal(t, columnNames(want), columnNames(got))
	})
}
