// Package config provides configuration loading and validation for herostore.
//
// The package handles YAML configuration files, .env files, environment
// variables, and CLI flags with automatic merging and validation using
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (HEROSTORE_ prefix), including those exported from .env
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with HEROSTORE_ prefix:
//   - server.port → HEROSTORE_SERVER_PORT
//   - storage.backend → HEROSTORE_STORAGE_BACKEND
//   - azure.account_name → HEROSTORE_AZURE_ACCOUNT_NAME
//
// The Azure and S3 credentials additionally fall back to
// PRIMARY_STORAGE_ACCOUNT_NAME and PRIMARY_STORAGE_ACCOUNT_KEY when neither
// the config nor a credentials file supplies them.
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: port, status_mode (compat/strict), and max_body_size
//   - Service: serialize_writes
//   - Storage: backend, path, and bucket
//   - Database: type, DSN, table names, and auto_migrate
//   - Azure, S3: endpoint, container or bucket, and credentials
//   - IDs: strategy (random/unique) and max_attempts
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Status mode must be compat or strict
//   - Backend must be one of memory, filesystem, bolt, sqlite, postgres, azure, s3
//   - Log level must be debug, info, warn, or error
package config
