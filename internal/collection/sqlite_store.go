package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// dateLayout is what Create writes. SQLite's date functions read it, so List
// orders by julianday rather than by the raw text.
const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

// legacyDateLayout is what SQLite's CURRENT_TIMESTAMP default produces.
const legacyDateLayout = "2006-01-02 15:04:05"

const selectItem = `SELECT id, name, series, number, purchase_price, barcode, image_uri, date_added, notes FROM items`

// SQLiteStore keeps the collection in one SQLite table.
//
// Table:
//
//	items(id, name, series, number, purchase_price, barcode, image_uri, date_added, notes)
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at path. Call Init
// before any other operation.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, storageErr("open", fmt.Errorf("create dirs: %w", err))
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageErr("open", err)
	}
	// One writer at a time; also keeps a :memory: database on a single
	// connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, storageErr("open", err)
	}
	return &SQLiteStore{db: db, path: path, now: time.Now}, nil
}

func (s *SQLiteStore) WithClock(now func() time.Time) *SQLiteStore {
	s.now = now
	return s
}

// DB exposes the underlying handle for migration tests.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return storageErr("close", err)
	}
	return nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	if err := reconcileSchema(ctx, s.db, s.timestamp()); err != nil {
		return storageErr("init", err)
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, item Item) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO items (name, series, number, purchase_price, barcode, image_uri, date_added, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Name,
		nullable(item.Series),
		nullable(item.Number),
		nullable(item.PurchasePrice),
		nullable(item.Barcode),
		nullable(item.ImageRef),
		s.timestamp(),
		nullable(item.Notes),
	)
	if err != nil {
		return 0, storageErr("create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("create", err)
	}
	return id, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, selectItem+` ORDER BY julianday(date_added) DESC, id DESC`)
	if err != nil {
		return nil, storageErr("list", err)
	}
	defer func() { _ = rows.Close() }()

	items := []Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, storageErr("list", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list", err)
	}
	return items, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (Item, error) {
	row := s.db.QueryRowContext(ctx, selectItem+` WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Item{}, storageErr("get", err)
	}
	return item, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, item Item) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE items
		 SET name = ?, series = ?, number = ?, purchase_price = ?, barcode = ?, image_uri = ?, notes = ?
		 WHERE id = ?`,
		item.Name,
		nullable(item.Series),
		nullable(item.Number),
		nullable(item.PurchasePrice),
		nullable(item.Barcode),
		nullable(item.ImageRef),
		nullable(item.Notes),
		id,
	)
	if err != nil {
		return 0, storageErr("update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("update", err)
	}
	return n, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return 0, storageErr("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("delete", err)
	}
	return n, nil
}

func (s *SQLiteStore) timestamp() string {
	return s.now().UTC().Format(dateLayout)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (Item, error) {
	var (
		item                                         Item
		series, number, price, barcode, image, notes sql.NullString
		added                                        sql.NullString
	)
	if err := sc.Scan(&item.ID, &item.Name, &series, &number, &price, &barcode, &image, &added, &notes); err != nil {
		return Item{}, err
	}
	item.Series = series.String
	item.Number = number.String
	item.PurchasePrice = price.String
	item.Barcode = barcode.String
	item.ImageRef = image.String
	item.Notes = notes.String
	item.DateAdded = parseDate(added.String)
	return item, nil
}

func parseDate(s string) time.Time {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(legacyDateLayout, s); err == nil {
		return t
	}
	return time.Time{}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
