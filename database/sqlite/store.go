// Package sqlite provides a SQLite-backed blob container.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sagarc03/herostore"
)

type store struct {
	db        *sql.DB
	tableName string
}

func (s *store) List(ctx context.Context) ([]herostore.BlobItem, error) {
	query := fmt.Sprintf(`SELECT name, size_bytes FROM %s ORDER BY name`, quoteIdentifier(s.tableName))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]herostore.BlobItem, 0)
	for rows.Next() {
		var item herostore.BlobItem
		if scanErr := rows.Scan(&item.Name, &item.Size); scanErr != nil {
			return nil, fmt.Errorf("list: scan: %w", scanErr)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}

	return items, nil
}

func (s *store) Read(ctx context.Context, name string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE name = ?`, quoteIdentifier(s.tableName))

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, herostore.ErrNotFound
		}
		return nil, fmt.Errorf("read: %w", err)
	}

	return payload, nil
}

func (s *store) Write(ctx context.Context, name string, payload []byte, overwrite bool) error {
	if !herostore.IsValidBlobName(name) {
		return fmt.Errorf("write %s: %w", name, herostore.ErrInvalidInput)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	conflict := `DO NOTHING`
	if overwrite {
		conflict = `DO UPDATE SET payload = excluded.payload, size_bytes = excluded.size_bytes, updated_at = excluded.updated_at`
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (name, payload, size_bytes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) %s`, quoteIdentifier(s.tableName), conflict)

	result, err := s.db.ExecContext(ctx, query, name, payload, len(payload), now, now)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	if overwrite {
		return nil
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("write: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("write %s: %w", name, herostore.ErrAlreadyExists)
	}

	return nil
}

func (s *store) Delete(ctx context.Context, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE name = ?`, quoteIdentifier(s.tableName))

	result, err := s.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete: %w", herostore.ErrNotFound)
	}

	return nil
}
