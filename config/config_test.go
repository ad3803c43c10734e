package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/herostore"
	"github.com/sagarc03/herostore/config"
	herohttp "github.com/sagarc03/herostore/http"
	"github.com/sagarc03/herostore/storage"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// Load with no config files should use defaults
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 7071, cfg.Server.Port)
	assert.Equal(t, "compat", cfg.Server.StatusMode)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodySize)
	assert.False(t, cfg.Service.SerializeWrites)
	assert.Equal(t, "filesystem", cfg.Storage.Backend)
	assert.Equal(t, "./heroes", cfg.Storage.Path)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "herostore.db", cfg.Database.DSN)
	assert.Equal(t, "hero_blobs", cfg.Database.Tables.Blobs)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "heroes", cfg.Azure.Container)
	assert.Equal(t, "heroes", cfg.S3.Bucket)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.True(t, cfg.S3.UseSSL)
	assert.Equal(t, "random", cfg.IDs.Strategy)
	assert.Equal(t, 16, cfg.IDs.MaxAttempts)
	assert.False(t, cfg.CORS.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "config.yaml", `
env: production
server:
  port: 8080
  status_mode: strict
  max_body_size: 4096
service:
  serialize_writes: true
storage:
  backend: azure
azure:
  endpoint: http://127.0.0.1:10000/devstoreaccount1
  container: avengers
  create_container: true
  account_name: devstoreaccount1
  account_key: c2VjcmV0
ids:
  strategy: unique
  max_attempts: 4
log:
  level: debug
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "strict", cfg.Server.StatusMode)
	assert.Equal(t, int64(4096), cfg.Server.MaxBodySize)
	assert.True(t, cfg.Service.SerializeWrites)
	assert.Equal(t, "azure", cfg.Storage.Backend)
	assert.Equal(t, "http://127.0.0.1:10000/devstoreaccount1", cfg.Azure.Endpoint)
	assert.Equal(t, "avengers", cfg.Azure.Container)
	assert.True(t, cfg.Azure.CreateContainer)
	assert.Equal(t, "devstoreaccount1", cfg.Azure.AccountName)
	assert.Equal(t, "c2VjcmV0", cfg.Azure.AccountKey)
	assert.Equal(t, "unique", cfg.IDs.Strategy)
	assert.Equal(t, 4, cfg.IDs.MaxAttempts)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFileMerge(t *testing.T) {
	tmpDir := t.TempDir()

	basePath := writeFile(t, tmpDir, "base.yaml", `
server:
  port: 7071
  status_mode: compat
storage:
  backend: sqlite
database:
  dsn: heroes.db
  tables:
    blobs: hero_blobs
log:
  level: info
`)
	overridePath := writeFile(t, tmpDir, "override.yaml", `
server:
  port: 9000
database:
  tables:
    blobs: marvel_blobs
`)

	// Later files override earlier
	cfg, err := config.Load([]string{basePath, overridePath}, nil)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "marvel_blobs", cfg.Database.Tables.Blobs)

	// Preserved values from base
	assert.Equal(t, "compat", cfg.Server.StatusMode)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "heroes.db", cfg.Database.DSN)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "invalid port", content: "server:\n  port: 70000\n", field: "Port"},
		{name: "invalid status mode", content: "server:\n  status_mode: lenient\n", field: "StatusMode"},
		{name: "invalid backend", content: "storage:\n  backend: dynamo\n", field: "Backend"},
		{name: "invalid id strategy", content: "ids:\n  strategy: sequential\n", field: "Strategy"},
		{name: "zero max attempts", content: "ids:\n  max_attempts: 0\n", field: "MaxAttempts"},
		{name: "negative body size", content: "server:\n  max_body_size: -1\n", field: "MaxBodySize"},
		{name: "invalid log level", content: "log:\n  level: verbose\n", field: "Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeFile(t, t.TempDir(), "config.yaml", tt.content)

			_, err := config.Load([]string{configPath}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate config")
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoad_WithCORS(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "config.yaml", `
cors:
  enabled: true
  allowed_origins:
    - https://heroes.example.com
  allowed_methods:
    - GET
    - POST
  allowed_headers:
    - Content-Type
  max_age: 600
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"https://heroes.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "POST"}, cfg.CORS.AllowedMethods)
	assert.Equal(t, []string{"Content-Type"}, cfg.CORS.AllowedHeaders)
	assert.Equal(t, 600, cfg.CORS.MaxAge)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("HEROSTORE_SERVER_PORT", "9090")
	t.Setenv("HEROSTORE_STORAGE_BACKEND", "bolt")
	t.Setenv("HEROSTORE_AZURE_ACCOUNT_NAME", "heroaccount")
	t.Setenv("HEROSTORE_SERVICE_SERIALIZE_WRITES", "true")

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "bolt", cfg.Storage.Backend)
	assert.Equal(t, "heroaccount", cfg.Azure.AccountName)
	assert.True(t, cfg.Service.SerializeWrites)
}

func TestLoadWithEnvFiles(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := writeFile(t, tmpDir, "test.env", "HEROSTORE_TEST_ENV_FILE_PORT=6060\n")
	t.Cleanup(func() { _ = os.Unsetenv("HEROSTORE_TEST_ENV_FILE_PORT") })

	configPath := writeFile(t, tmpDir, "config.yaml", "log:\n  level: warn\n")

	cfg, err := config.LoadWithEnvFiles([]string{configPath}, []string{envPath, filepath.Join(tmpDir, "missing.env")}, nil)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "6060", os.Getenv("HEROSTORE_TEST_ENV_FILE_PORT"))
}

func TestLoadWithEnvFiles_ExistingEnvWins(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := writeFile(t, tmpDir, "test.env", "HEROSTORE_SERVER_PORT=6060\n")
	t.Setenv("HEROSTORE_SERVER_PORT", "6161")

	cfg, err := config.LoadWithEnvFiles(nil, []string{envPath}, nil)
	require.NoError(t, err)

	assert.Equal(t, 6161, cfg.Server.Port)
}

func TestLoad_Flags(t *testing.T) {
	t.Setenv("HEROSTORE_SERVER_PORT", "9090")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 7071, "")
	flags.String("backend", "", "")
	flags.String("status-mode", "", "")
	require.NoError(t, flags.Parse([]string{"--port=8181", "--backend=memory"}))

	cfg, err := config.Load(nil, flags)
	require.NoError(t, err)

	// Flags beat the environment
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	// Unset flags do not override defaults
	assert.Equal(t, "compat", cfg.Server.StatusMode)
}

func TestConfig_StorageOptions(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "config.yaml", `
storage:
  backend: postgres
database:
  type: sqlite
  dsn: postgres://localhost/heroes
  auto_migrate: false
s3:
  endpoint: localhost:9000
  use_ssl: false
  account_name: minio
  account_key: minio123
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	opts := cfg.StorageOptions()
	assert.Equal(t, storage.BackendPostgres, opts.Backend)
	assert.Equal(t, "postgres", opts.Database.Type)
	assert.Equal(t, "postgres://localhost/heroes", opts.Database.DSN)
	assert.Equal(t, "hero_blobs", opts.Database.Tables.Blobs)
	assert.False(t, opts.AutoMigrate)
	assert.Equal(t, "localhost:9000", opts.S3.Endpoint)
	assert.False(t, opts.S3.UseSSL)
	assert.Equal(t, "minio", opts.S3.AccountName)
	assert.Equal(t, "minio123", opts.S3.AccountKey)
}

func TestConfig_IDGenerator(t *testing.T) {
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	g, err := cfg.IDGenerator()
	require.NoError(t, err)
	assert.IsType(t, &herostore.RandomIDGenerator{}, g)

	cfg.IDs.Strategy = "unique"
	g, err = cfg.IDGenerator()
	require.NoError(t, err)
	assert.IsType(t, &herostore.UniqueIDGenerator{}, g)
}

func TestConfig_HandlerConfig(t *testing.T) {
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)
	cfg.Server.StatusMode = "strict"
	cfg.CORS.Enabled = true

	hc := cfg.HandlerConfig()
	assert.Equal(t, herohttp.StatusStrict, hc.StatusMode)
	assert.True(t, hc.CORS.Enabled)
	assert.Equal(t, int64(1<<20), hc.MaxBodySize)
}

func TestFromContext(t *testing.T) {
	_, err := config.FromContext(context.Background())
	assert.Error(t, err)

	cfg := &config.Config{}
	got, err := config.FromContext(config.WithContext(context.Background(), cfg))
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}
