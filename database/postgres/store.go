package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/herostore"
)

type store struct {
	pool      *pgxpool.Pool
	tableName string
}

func (s *store) List(ctx context.Context) ([]herostore.BlobItem, error) {
	quotedTable := pgx.Identifier{s.tableName}.Sanitize()
	query := fmt.Sprintf(`SELECT name, size_bytes FROM %s ORDER BY name`, quotedTable)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

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
	quotedTable := pgx.Identifier{s.tableName}.Sanitize()
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE name = $1`, quotedTable)

	var payload []byte
	err := s.pool.QueryRow(ctx, query, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	quotedTable := pgx.Identifier{s.tableName}.Sanitize()
	conflict := `DO NOTHING`
	if overwrite {
		conflict = `DO UPDATE SET
			payload = EXCLUDED.payload,
			size_bytes = EXCLUDED.size_bytes,
			updated_at = NOW()`
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name, payload, size_bytes)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) %s
	`, quotedTable, conflict)

	tag, err := s.pool.Exec(ctx, query, name, payload, int64(len(payload)))
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	if !overwrite && tag.RowsAffected() == 0 {
		return fmt.Errorf("write %s: %w", name, herostore.ErrAlreadyExists)
	}

	return nil
}

func (s *store) Delete(ctx context.Context, name string) error {
	quotedTable := pgx.Identifier{s.tableName}.Sanitize()
	query := fmt.Sprintf(`DELETE FROM %s WHERE name = $1`, quotedTable)

	tag, err := s.pool.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete: %w", herostore.ErrNotFound)
	}

	return nil
}
