package collection

import (
	"context"
	"database/sql"
	"fmt"
)

const itemsTable = "items"

const createItemsTable = `CREATE TABLE IF NOT EXISTS items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	series TEXT,
	number TEXT,
	purchase_price TEXT,
	barcode TEXT,
	image_uri TEXT,
	date_added TEXT DEFAULT CURRENT_TIMESTAMP,
	notes TEXT
)`

// rewriteLegacyDates moves CURRENT_TIMESTAMP values ("YYYY-MM-DD HH:MM:SS",
// UTC) to the layout Create writes.
const rewriteLegacyDates = `UPDATE items
	SET date_added = strftime('%Y-%m-%dT%H:%M:%S.000000000Z', date_added)
	WHERE date_added GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9] [0-9][0-9]:[0-9][0-9]:[0-9][0-9]'`

// column is one attribute the reconciler guarantees on the items table.
// def is what ALTER TABLE ADD COLUMN receives, so it may only carry a
// constant default.
type column struct {
	name string
	def  string
}

var itemColumns = []column{
	{name: "name", def: "TEXT NOT NULL DEFAULT ''"},
	{name: "series", def: "TEXT"},
	{name: "number", def: "TEXT"},
	{name: "purchase_price", def: "TEXT"},
	{name: "barcode", def: "TEXT"},
	{name: "image_uri", def: "TEXT"},
	{name: "date_added", def: "TEXT"},
	{name: "notes", def: "TEXT"},
}

// reconcileSchema brings the items table to the current shape. It never
// drops or renames anything and keys every step on the column name, so an
// interrupted earlier run is finished rather than repeated.
func reconcileSchema(ctx context.Context, db *sql.DB, now string) error {
	if _, err := db.ExecContext(ctx, createItemsTable); err != nil {
		return fmt.Errorf("create %s table: %w", itemsTable, err)
	}

	existing, err := tableColumns(ctx, db, itemsTable)
	if err != nil {
		return err
	}

	for _, c := range missingColumns(existing) {
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", itemsTable, c.name, c.def)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add column %s: %w", c.name, err)
		}
	}

	// Runs on every Init: a crash between ADD COLUMN and this statement
	// must still end with every row dated.
	if _, err := db.ExecContext(ctx,
		`UPDATE items SET date_added = ? WHERE date_added IS NULL OR date_added = ''`, now); err != nil {
		return fmt.Errorf("backfill date_added: %w", err)
	}

	if _, err := db.ExecContext(ctx, rewriteLegacyDates); err != nil {
		return fmt.Errorf("rewrite legacy date_added: %w", err)
	}
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("inspect %s: %w", table, err)
		}
		names[name] = true
	}
	return names, rows.Err()
}

func missingColumns(existing map[string]bool) []column {
	var missing []column
	for _, c := range itemColumns {
		if !existing[c.name] {
			missing = append(missing, c)
		}
	}
	return missing
}
