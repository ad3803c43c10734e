package database

import (
	"context"
	"fmt"

	"github.com/sagarc03/herostore"
	"github.com/sagarc03/herostore/database/postgres"
	"github.com/sagarc03/herostore/database/sqlite"
)

// Config holds the configuration for connecting to a SQL blob container.
type Config struct {
	// Type specifies the database type: "sqlite" or "postgres"
	Type string `mapstructure:"type"`
	// DSN is the data source name (connection string)
	DSN string `mapstructure:"dsn"`
	// Tables holds the table names used for blob storage
	Tables herostore.Tables `mapstructure:"tables"`
}

// Database is a connected SQL backend that can hold a blob container.
type Database interface {
	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error
	// Migrate creates the blob table and its indexes if missing.
	Migrate(ctx context.Context) error
	// Validate checks the blob table has the expected columns.
	Validate(ctx context.Context) error
	// GetStore returns the blob container backed by this database.
	GetStore() herostore.BlobStore
	// Close releases the connection or pool.
	Close() error
}

// Connect opens a connection to the configured backend.
// Table names are validated before any connection is made.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	if err := cfg.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	switch cfg.Type {
	case "sqlite":
		return sqlite.Connect(ctx, cfg.DSN, cfg.Tables)
	case "postgres":
		return postgres.Connect(ctx, cfg.DSN, cfg.Tables)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}
