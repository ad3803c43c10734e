package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/herostore"
	"github.com/sagarc03/herostore/database"
	herohttp "github.com/sagarc03/herostore/http"
	"github.com/sagarc03/herostore/storage"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for herostore.
type Config struct {
	Env      string              `mapstructure:"env"`
	Server   ServerConfig        `mapstructure:"server"`
	Service  ServiceConfig       `mapstructure:"service"`
	Storage  StorageConfig       `mapstructure:"storage"`
	Database DatabaseConfig      `mapstructure:"database"`
	Azure    storage.AzureConfig `mapstructure:"azure"`
	S3       storage.S3Config    `mapstructure:"s3"`
	IDs      IDsConfig           `mapstructure:"ids"`
	CORS     herohttp.CORSConfig `mapstructure:"cors"`
	Log      LogConfig           `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	StatusMode  string `mapstructure:"status_mode" validate:"required,oneof=compat strict"`
	MaxBodySize int64  `mapstructure:"max_body_size" validate:"min=0"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	SerializeWrites bool `mapstructure:"serialize_writes"`
}

// StorageConfig selects the blob container backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory filesystem bolt sqlite postgres azure s3"`
	Path    string `mapstructure:"path"`
	Bucket  string `mapstructure:"bucket"`
}

// DatabaseConfig holds the SQL backend settings.
type DatabaseConfig struct {
	database.Config `mapstructure:",squash"`
	AutoMigrate     bool `mapstructure:"auto_migrate"`
}

// IDsConfig holds the id allocation policy.
type IDsConfig struct {
	Strategy    string `mapstructure:"strategy" validate:"required,oneof=random unique"`
	MaxAttempts int    `mapstructure:"max_attempts" validate:"min=1"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// IsProduction reports whether the config targets a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// StorageOptions converts the loaded settings into the form storage.Open takes.
func (c *Config) StorageOptions() storage.Config {
	dbCfg := c.Database.Config
	if c.Storage.Backend == storage.BackendSQLite || c.Storage.Backend == storage.BackendPostgres {
		dbCfg.Type = c.Storage.Backend
	}
	return storage.Config{
		Backend:     c.Storage.Backend,
		Path:        c.Storage.Path,
		Bucket:      c.Storage.Bucket,
		Database:    dbCfg,
		AutoMigrate: c.Database.AutoMigrate,
		Azure:       c.Azure,
		S3:          c.S3,
	}
}

// IDGenerator builds the configured id allocation policy.
func (c *Config) IDGenerator() (herostore.IDGenerator, error) {
	strategy, err := herostore.ParseIDStrategy(c.IDs.Strategy)
	if err != nil {
		return nil, err
	}
	return herostore.NewIDGenerator(strategy, c.IDs.MaxAttempts)
}

// HandlerConfig builds the HTTP handler settings.
func (c *Config) HandlerConfig() *herohttp.HandlerConfig {
	return &herohttp.HandlerConfig{
		StatusMode:  herohttp.StatusMode(c.Server.StatusMode),
		CORS:        c.CORS,
		MaxBodySize: c.Server.MaxBodySize,
	}
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"backend":      "storage.backend",
	"storage-path": "storage.path",
	"db-type":      "database.type",
	"db-dsn":       "database.dsn",
	"port":         "server.port",
	"status-mode":  "server.status_mode",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
// Every key needs a default so AutomaticEnv can find it on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("server.port", 7071)
	v.SetDefault("server.status_mode", string(herohttp.StatusCompat))
	v.SetDefault("server.max_body_size", 1<<20)

	v.SetDefault("service.serialize_writes", false)

	v.SetDefault("storage.backend", storage.BackendFilesystem)
	v.SetDefault("storage.path", "./heroes")
	v.SetDefault("storage.bucket", "heroes")

	v.SetDefault("database.type", storage.BackendSQLite)
	v.SetDefault("database.dsn", "herostore.db")
	v.SetDefault("database.tables.blobs", "hero_blobs")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("azure.endpoint", "")
	v.SetDefault("azure.container", "heroes")
	v.SetDefault("azure.create_container", false)
	v.SetDefault("azure.account_name", "")
	v.SetDefault("azure.account_key", "")
	v.SetDefault("azure.file", "")

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.bucket", "heroes")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.create_bucket", false)
	v.SetDefault("s3.account_name", "")
	v.SetDefault("s3.account_key", "")
	v.SetDefault("s3.file", "")

	v.SetDefault("ids.strategy", string(herostore.IDStrategyRandom))
	v.SetDefault("ids.max_attempts", 16)

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("cors.allowed_methods", []string{})
	v.SetDefault("cors.allowed_headers", []string{})
	v.SetDefault("cors.exposed_headers", []string{})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 0)

	v.SetDefault("log.level", "info")
}

// loadDotEnv exports the variables from the given .env files.
// Variables already present in the environment win. Missing files are skipped.
func loadDotEnv(files []string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", f, err)
		}
		slog.Debug("loaded env file", "file", f)
	}
	return nil
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// A .env file in the working directory is exported into the environment
// before the environment is consulted.
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	return LoadWithEnvFiles(configFiles, []string{".env"}, flags)
}

// LoadWithEnvFiles is Load with an explicit list of .env files.
func LoadWithEnvFiles(configFiles, envFiles []string, flags *pflag.FlagSet) (*Config, error) {
	if err := loadDotEnv(envFiles); err != nil {
		return nil, err
	}

	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("HEROSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
