package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sagarc03/herostore"
)

// ErrSchemaMismatch is returned when the blob table exists but does not have
// the layout Migrate creates.
var ErrSchemaMismatch = errors.New("blob table schema mismatch")

// blobColumn describes one expected column of the blob table.
type blobColumn struct {
	name     string
	dataType string
	primary  bool
}

// blobColumns lists the blob table layout in creation order. Every column is NOT NULL.
var blobColumns = []blobColumn{
	{name: "name", dataType: "text", primary: true},
	{name: "payload", dataType: "blob"},
	{name: "size_bytes", dataType: "integer"},
	{name: "created_at", dataType: "text"},
	{name: "updated_at", dataType: "text"},
}

// tableColumn is one row of PRAGMA table_info.
type tableColumn struct {
	dataType string
	notNull  bool
	primary  bool
}

// ValidateSchema checks the blob table exists with the columns Migrate
// creates and that blob names are its primary key. Create-only writes depend
// on that key to reject a second insert.
func ValidateSchema(ctx context.Context, db *sql.DB, tables herostore.Tables) error {
	table := tables.Blobs
	if !herostore.IsValidTableName(table) {
		return fmt.Errorf("validate schema: invalid table name: %s", table)
	}

	exists, err := tableExists(ctx, db, table)
	if err != nil {
		return fmt.Errorf("validate schema %s: %w", table, err)
	}
	if !exists {
		return fmt.Errorf("validate schema %s: table does not exist", table)
	}

	actual, err := readColumns(ctx, db, table)
	if err != nil {
		return fmt.Errorf("validate schema %s: %w", table, err)
	}

	var problems []string
	for _, want := range blobColumns {
		got, ok := actual[want.name]
		switch {
		case !ok:
			problems = append(problems, want.name+": missing")
			continue
		case got.dataType != want.dataType:
			problems = append(problems, fmt.Sprintf("%s: expected %s, got %s", want.name, want.dataType, got.dataType))
		}
		// SQLite reports a TEXT primary key as nullable unless declared NOT NULL
		if !got.notNull {
			problems = append(problems, want.name+": must be NOT NULL")
		}
		if got.primary != want.primary {
			problems = append(problems, fmt.Sprintf("%s: expected primary=%v", want.name, want.primary))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("validate schema %s: %w: %s", table, ErrSchemaMismatch, strings.Join(problems, "; "))
	}

	return nil
}

func readColumns(ctx context.Context, db *sql.DB, table string) (map[string]tableColumn, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns := make(map[string]tableColumn)
	for rows.Next() {
		var (
			cid      int
			name     string
			dataType string
			notNull  int
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns[name] = tableColumn{
			dataType: strings.ToLower(dataType),
			notNull:  notNull != 0,
			primary:  pk > 0,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	return columns, nil
}

func tableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return n > 0, nil
}
