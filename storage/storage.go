// Package storage opens the blob container selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sagarc03/herostore"
	"github.com/sagarc03/herostore/azureblob"
	"github.com/sagarc03/herostore/bolt"
	"github.com/sagarc03/herostore/credentials"
	"github.com/sagarc03/herostore/database"
	"github.com/sagarc03/herostore/filesystem"
	"github.com/sagarc03/herostore/memory"
	"github.com/sagarc03/herostore/s3"
)

// Supported backends.
const (
	BackendMemory     = "memory"
	BackendFilesystem = "filesystem"
	BackendBolt       = "bolt"
	BackendSQLite     = "sqlite"
	BackendPostgres   = "postgres"
	BackendAzure      = "azure"
	BackendS3         = "s3"
)

// Backends lists every backend Open understands.
var Backends = []string{
	BackendMemory, BackendFilesystem, BackendBolt,
	BackendSQLite, BackendPostgres, BackendAzure, BackendS3,
}

// AzureConfig holds Azure Blob Storage settings.
type AzureConfig struct {
	Endpoint           string `mapstructure:"endpoint"`
	Container          string `mapstructure:"container"`
	CreateContainer    bool   `mapstructure:"create_container"`
	credentials.Config `mapstructure:",squash"`
}

// S3Config holds settings for an S3-compatible endpoint.
// AccountName and AccountKey carry the access key id and secret.
type S3Config struct {
	Endpoint           string `mapstructure:"endpoint"`
	Bucket             string `mapstructure:"bucket"`
	Region             string `mapstructure:"region"`
	UseSSL             bool   `mapstructure:"use_ssl"`
	CreateBucket       bool   `mapstructure:"create_bucket"`
	credentials.Config `mapstructure:",squash"`
}

// Config selects and configures one backend.
type Config struct {
	Backend string
	// Path is the directory for filesystem and the database file for bolt.
	Path string
	// Bucket is the bbolt bucket name.
	Bucket string

	Database    database.Config
	AutoMigrate bool

	Azure AzureConfig
	S3    S3Config

	// LookupEnv resolves the legacy credential variables (default: os.LookupEnv).
	LookupEnv credentials.LookupFunc
}

// Open connects to the configured backend.
//
// Returns:
//   - herostore.BlobStore: The opened container
//   - func(): Releases the backend; always non-nil on success
//   - error: Unknown backend or connection failure
func Open(ctx context.Context, cfg Config) (herostore.BlobStore, func(), error) {
	lookup := cfg.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	switch cfg.Backend {
	case BackendMemory:
		return memory.NewStore(), func() {}, nil

	case BackendFilesystem:
		return openFilesystem(cfg.Path)

	case BackendBolt:
		store, err := bolt.Open(cfg.Path, cfg.Bucket)
		if err != nil {
			return nil, nil, fmt.Errorf("open storage: %w", err)
		}
		return store, func() { _ = store.Close() }, nil

	case BackendSQLite, BackendPostgres:
		dbCfg := cfg.Database
		dbCfg.Type = cfg.Backend
		return openDatabase(ctx, dbCfg, cfg.AutoMigrate)

	case BackendAzure:
		pair, err := credentials.Resolve(cfg.Azure.Config, lookup)
		if err != nil {
			return nil, nil, fmt.Errorf("open storage: azure: %w", err)
		}
		store, err := azureblob.New(ctx, azureblob.Config{
			Endpoint:        cfg.Azure.Endpoint,
			Container:       cfg.Azure.Container,
			CreateContainer: cfg.Azure.CreateContainer,
			Credentials:     pair,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open storage: %w", err)
		}
		return store, func() {}, nil

	case BackendS3:
		pair, err := credentials.Resolve(cfg.S3.Config, lookup)
		if err != nil {
			return nil, nil, fmt.Errorf("open storage: s3: %w", err)
		}
		store, err := s3.New(ctx, s3.Config{
			Endpoint:     cfg.S3.Endpoint,
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			UseSSL:       cfg.S3.UseSSL,
			CreateBucket: cfg.S3.CreateBucket,
			Credentials:  pair,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open storage: %w", err)
		}
		return store, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("open storage: unsupported backend: %q", cfg.Backend)
	}
}

func openFilesystem(path string) (herostore.BlobStore, func(), error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, nil, fmt.Errorf("open storage: create directory: %w", err)
	}

	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: open root: %w", err)
	}

	return filesystem.NewFileStorage(root), func() { _ = root.Close() }, nil
}

func openDatabase(ctx context.Context, cfg database.Config, autoMigrate bool) (herostore.BlobStore, func(), error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	cleanup := func() { _ = db.Close() }

	if err = db.Ping(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("open storage: ping database: %w", err)
	}

	if autoMigrate {
		if err = db.Migrate(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("open storage: migrate database: %w", err)
		}
		slog.Info("database migration complete", "type", cfg.Type)
	}

	if err = db.Validate(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("open storage: validate database schema: %w", err)
	}

	return db.GetStore(), cleanup, nil
}
