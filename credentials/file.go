package credentials

import (
	"encoding/json"
	"fmt"
	"os"
)

// KeyPair is a storage account name and its shared key.
// For S3 backends the name is the access key id and the key is the secret.
type KeyPair struct {
	AccountName string `json:"account_name" mapstructure:"account_name"`
	AccountKey  string `json:"account_key" mapstructure:"account_key"`
}

// IsComplete reports whether both halves of the pair are set.
func (k KeyPair) IsComplete() bool {
	return k.AccountName != "" && k.AccountKey != ""
}

// LoadFromFile loads a key pair from a JSON file:
//
//	{"account_name": "herostore", "account_key": "c2VjcmV0..."}
func LoadFromFile(path string) (KeyPair, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return KeyPair{}, fmt.Errorf("read credentials file: %w", err)
	}

	var pair KeyPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return KeyPair{}, fmt.Errorf("parse credentials file: %w", err)
	}

	if !pair.IsComplete() {
		return KeyPair{}, fmt.Errorf("credentials file %s: %w", path, ErrMissingCredentials)
	}

	return pair, nil
}
