// Package database provides SQL-backed blob containers for herostore.
//
// A SQL table stands in for the blob container: one row per blob, keyed by
// blob name, with the raw payload in a binary column. The hero service still
// lists and decodes every row; the database is storage, not an index.
//
// # Supported Backends
//
//   - PostgreSQL: pgx connection pool
//   - SQLite: modernc.org/sqlite, suitable for development and single-node deployments
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "sqlite",
//	    DSN:    "heroes.db",
//	    Tables: herostore.Tables{Blobs: "hero_blobs"},
//	}
//
//	db, err := database.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	store := db.GetStore()
//
// Create-only writes use INSERT ... ON CONFLICT DO NOTHING on the primary
// key, so they are atomic in both backends.
//
// # Subpackages
//
//   - database/postgres: PostgreSQL implementation using pgx
//   - database/sqlite: SQLite implementation using modernc.org/sqlite
package database
