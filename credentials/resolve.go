// Package credentials resolves the account name and key used by the remote blob gateways.
package credentials

import "fmt"

// Environment variable names read when nothing else is configured.
const (
	EnvAccountName = "PRIMARY_STORAGE_ACCOUNT_NAME"
	EnvAccountKey  = "PRIMARY_STORAGE_ACCOUNT_KEY"
)

// LookupFunc looks up an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Config holds the configured credential sources.
type Config struct {
	AccountName string `mapstructure:"account_name"`
	AccountKey  string `mapstructure:"account_key"`
	File        string `mapstructure:"file"` // Path to JSON file containing a key pair
}

// Resolve returns the first complete key pair from, in order: the
// credentials file, the inline config values, and the legacy environment
// variables. A configured file that cannot be read is an error, it is never
// skipped in favour of the next source.
func Resolve(cfg Config, lookup LookupFunc) (KeyPair, error) {
	if cfg.File != "" {
		pair, err := LoadFromFile(cfg.File)
		if err != nil {
			return KeyPair{}, fmt.Errorf("resolve credentials: %w", err)
		}
		return pair, nil
	}

	inline := KeyPair{AccountName: cfg.AccountName, AccountKey: cfg.AccountKey}
	if inline.IsComplete() {
		return inline, nil
	}

	if lookup != nil {
		env := KeyPair{}
		env.AccountName, _ = lookup(EnvAccountName)
		env.AccountKey, _ = lookup(EnvAccountKey)
		if env.IsComplete() {
			return env, nil
		}
	}

	return KeyPair{}, fmt.Errorf("resolve credentials: %w", ErrMissingCredentials)
}
