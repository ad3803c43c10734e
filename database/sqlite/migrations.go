package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/herostore"
)

// quoteIdentifier quotes a table name that already passed IsValidTableName.
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

// Migrate creates the blob table when it does not exist. Blob names are the
// primary key so that ON CONFLICT can implement create-only writes.
func Migrate(ctx context.Context, db *sql.DB, tables herostore.Tables) error {
	if !herostore.IsValidTableName(tables.Blobs) {
		return fmt.Errorf("migrate: invalid table name: %s", tables.Blobs)
	}

	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT NOT NULL PRIMARY KEY,
			payload BLOB NOT NULL,
			size_bytes INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		) WITHOUT ROWID
	`, quoteIdentifier(tables.Blobs)))
	if err != nil {
		return fmt.Errorf("migrate %s: create table: %w", tables.Blobs, err)
	}

	return nil
}

// DropTables removes the blob table and every blob in it.
func DropTables(ctx context.Context, db *sql.DB, tables herostore.Tables) error {
	if !herostore.IsValidTableName(tables.Blobs) {
		return fmt.Errorf("drop tables: invalid table name: %s", tables.Blobs)
	}

	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdentifier(tables.Blobs)); err != nil {
		return fmt.Errorf("drop table %s: %w", tables.Blobs, err)
	}
	return nil
}
