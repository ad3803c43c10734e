package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/herostore"
)

// ErrSchemaMismatch is returned when the blob table exists but does not have
// the layout Migrate creates.
var ErrSchemaMismatch = errors.New("blob table schema mismatch")

// blobColumns maps each blob table column to its information_schema data type.
// Every column is NOT NULL.
var blobColumns = []struct {
	name     string
	dataType string
}{
	{"name", "text"},
	{"payload", "bytea"},
	{"size_bytes", "bigint"},
	{"created_at", "timestamp with time zone"},
	{"updated_at", "timestamp with time zone"},
}

// ValidateSchema checks the blob table exists in the public schema with the
// columns Migrate creates and that name is its only primary key column.
func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, tables herostore.Tables) error {
	table := tables.Blobs
	if !herostore.IsValidTableName(table) {
		return fmt.Errorf("validate schema: invalid table name: %s", table)
	}

	exists, err := tableExists(ctx, pool, table)
	if err != nil {
		return fmt.Errorf("validate schema %s: %w", table, err)
	}
	if !exists {
		return fmt.Errorf("validate schema %s: table does not exist", table)
	}

	rows, err := pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable = 'YES'
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
	`, table)
	if err != nil {
		return fmt.Errorf("validate schema %s: query columns: %w", table, err)
	}

	type column struct {
		dataType string
		nullable bool
	}
	actual := make(map[string]column)
	for rows.Next() {
		var name string
		var c column
		if err := rows.Scan(&name, &c.dataType, &c.nullable); err != nil {
			rows.Close()
			return fmt.Errorf("validate schema %s: scan column: %w", table, err)
		}
		actual[name] = c
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("validate schema %s: read columns: %w", table, err)
	}

	var problems []string
	for _, want := range blobColumns {
		got, ok := actual[want.name]
		if !ok {
			problems = append(problems, want.name+": missing")
			continue
		}
		if got.dataType != want.dataType {
			problems = append(problems, fmt.Sprintf("%s: expected %s, got %s", want.name, want.dataType, got.dataType))
		}
		if got.nullable {
			problems = append(problems, want.name+": must be NOT NULL")
		}
	}

	keys, err := primaryKey(ctx, pool, table)
	if err != nil {
		return fmt.Errorf("validate schema %s: %w", table, err)
	}
	if len(keys) != 1 || keys[0] != "name" {
		problems = append(problems, fmt.Sprintf("primary key: expected (name), got (%s)", strings.Join(keys, ", ")))
	}

	if len(problems) > 0 {
		return fmt.Errorf("validate schema %s: %w: %s", table, ErrSchemaMismatch, strings.Join(problems, "; "))
	}

	return nil
}

func primaryKey(ctx context.Context, pool *pgxpool.Pool, table string) ([]string, error) {
	rows, err := pool.Query(ctx, `
		SELECT a.attname
		FROM pg_index i
		JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY(i.indkey)
		WHERE i.indrelid = $1::regclass AND i.indisprimary
	`, pgx.Identifier{table}.Sanitize())
	if err != nil {
		return nil, fmt.Errorf("query primary key: %w", err)
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("read primary key: %w", err)
	}
	return keys, nil
}

func tableExists(ctx context.Context, pool *pgxpool.Pool, table string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return exists, nil
}
