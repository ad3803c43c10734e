package clientcli_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/herostore/clientcli"
)

func TestConfig_WithDefaults(t *testing.T) {
	cfg := (&clientcli.Config{}).WithDefaults()
	assert.Equal(t, clientcli.DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, clientcli.DefaultTimeout, cfg.Timeout)

	custom := &clientcli.Config{Endpoint: "http://heroes:8080", Timeout: time.Second}
	cfg = custom.WithDefaults()
	assert.Equal(t, "http://heroes:8080", cfg.Endpoint)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.NotSame(t, custom, cfg)
}

func TestConfigFile_Profiles(t *testing.T) {
	cf := &clientcli.ConfigFile{}

	_, err := cf.GetProfile("")
	assert.ErrorIs(t, err, clientcli.ErrNoProfiles)

	require.NoError(t, cf.AddProfile(clientcli.Profile{Name: "local", Endpoint: "http://localhost:7071"}))
	require.NoError(t, cf.AddProfile(clientcli.Profile{Name: "staging", Endpoint: "https://heroes.staging"}))
	assert.ErrorIs(t, cf.AddProfile(clientcli.Profile{Name: "local"}), clientcli.ErrProfileExists)

	// First profile is the default until one is marked
	p, err := cf.GetProfile("")
	require.NoError(t, err)
	assert.Equal(t, "local", p.Name)

	require.NoError(t, cf.SetDefault("staging"))
	p, err = cf.GetDefaultProfile()
	require.NoError(t, err)
	assert.Equal(t, "staging", p.Name)

	require.NoError(t, cf.UpdateProfile(clientcli.Profile{Name: "local", Endpoint: "http://127.0.0.1:7071"}))
	p, err = cf.GetProfile("local")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:7071", p.Endpoint)

	assert.ErrorIs(t, cf.UpdateProfile(clientcli.Profile{Name: "prod"}), clientcli.ErrProfileNotFound)
	assert.ErrorIs(t, cf.SetDefault("prod"), clientcli.ErrProfileNotFound)

	require.NoError(t, cf.RemoveProfile("local"))
	assert.Equal(t, []string{"staging"}, cf.ProfileNames())
	assert.ErrorIs(t, cf.RemoveProfile("local"), clientcli.ErrProfileNotFound)
}

func TestConfigFile_SaveAndLoad(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.yaml")
		cf := &clientcli.ConfigFile{Profiles: []clientcli.Profile{
			{Name: "local", Endpoint: "http://localhost:7071", Timeout: "5s", Default: true},
		}}
		require.NoError(t, cf.Save(path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		loaded, err := clientcli.LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, cf.Profiles, loaded.Profiles)
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := clientcli.LoadConfigFile("/nonexistent/path/config.yaml")
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`profiles: [yaml: content`), 0o600))

		_, err := clientcli.LoadConfigFile(path)
		assert.Error(t, err)
	})
}

func TestConfigFromProfile(t *testing.T) {
	cfg, err := clientcli.ConfigFromProfile(&clientcli.Profile{Name: "local", Endpoint: "http://localhost:7071", Timeout: "2s"})
	require.NoError(t, err)
	assert.Equal(t, &clientcli.Config{Endpoint: "http://localhost:7071", Timeout: 2 * time.Second}, cfg)

	cfg, err = clientcli.ConfigFromProfile(nil)
	require.NoError(t, err)
	assert.Equal(t, &clientcli.Config{}, cfg)

	_, err = clientcli.ConfigFromProfile(&clientcli.Profile{Name: "bad", Timeout: "soon"})
	assert.ErrorIs(t, err, clientcli.ErrInvalidTimeout)
}

func TestMergeConfig(t *testing.T) {
	tests := []struct {
		name     string
		configs  []*clientcli.Config
		expected *clientcli.Config
	}{
		{
			name:     "empty configs",
			configs:  []*clientcli.Config{},
			expected: &clientcli.Config{},
		},
		{
			name: "later config overrides",
			configs: []*clientcli.Config{
				{Endpoint: "http://a.com", Timeout: time.Second},
				{Endpoint: "http://b.com"},
			},
			expected: &clientcli.Config{Endpoint: "http://b.com", Timeout: time.Second},
		},
		{
			name: "zero values do not override",
			configs: []*clientcli.Config{
				{Endpoint: "http://a.com", Timeout: time.Second},
				{},
			},
			expected: &clientcli.Config{Endpoint: "http://a.com", Timeout: time.Second},
		},
		{
			name: "nil config is skipped",
			configs: []*clientcli.Config{
				{Endpoint: "http://a.com"},
				nil,
				{Timeout: time.Minute},
			},
			expected: &clientcli.Config{Endpoint: "http://a.com", Timeout: time.Minute},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := clientcli.MergeConfig(tt.configs...)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("HEROSTORE_ENDPOINT", "http://test.example.com")
	t.Setenv("HEROSTORE_TIMEOUT", "3s")
	t.Setenv("HEROSTORE_PROFILE", "staging")
	t.Setenv("HEROSTORE_CLI_CONFIG", "/tmp/heroes.yaml")

	cfg := clientcli.ConfigFromEnv()

	assert.Equal(t, "http://test.example.com", cfg.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "staging", clientcli.ProfileFromEnv())
	assert.Equal(t, "/tmp/heroes.yaml", clientcli.ConfigPathFromEnv())
}
