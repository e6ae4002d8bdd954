package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(origDir))
	})
	for _, key := range []string{
		"GEMINI_API_KEY", "SPLITWISE_ACCESS_TOKEN",
		"SPLITWISE_CLIENT_ID", "SPLITWISE_CLIENT_SECRET",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestInitializeConfigDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, int64(0), cfg.GroupID)
	assert.False(t, cfg.UploadToSplitwise)
	assert.Equal(t, "https://secure.splitwise.com/api/v3.0", cfg.Splitwise.BaseURL)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.Equal(t, 120, cfg.AI.TimeoutSeconds)
}

func TestInitializeConfigFromEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("B2S_LOG_LEVEL", "debug")
	t.Setenv("B2S_GROUP_ID", "42")
	t.Setenv("B2S_PAYER_NAME", "Alice Smith")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SPLITWISE_ACCESS_TOKEN", "test-token")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, int64(42), cfg.GroupID)
	assert.Equal(t, "Alice Smith", cfg.PayerName)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
	assert.Equal(t, "test-token", cfg.Splitwise.AccessToken)
}

func TestInitializeConfigFromFile(t *testing.T) {
	isolateEnv(t)

	yaml := `
log:
  level: warn
group_id: 7
payer_name: Bob Jones
upload_to_splitwise: true
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o600))

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, int64(7), cfg.GroupID)
	assert.Equal(t, "Bob Jones", cfg.PayerName)
	assert.True(t, cfg.UploadToSplitwise)
}

func TestInitializeConfigRejectsBadLogLevel(t *testing.T) {
	isolateEnv(t)
	t.Setenv("B2S_LOG_LEVEL", "verbose")

	_, err := InitializeConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestValidateForUpload(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing group",
			mutate:  func(c *Config) { c.GroupID = 0 },
			wantErr: "group_id",
		},
		{
			name:    "missing payer",
			mutate:  func(c *Config) { c.PayerName = "" },
			wantErr: "payer_name",
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.AI.APIKey = "" },
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:    "missing access token",
			mutate:  func(c *Config) { c.Splitwise.AccessToken = "" },
			wantErr: "access token",
		},
		{
			name:   "complete",
			mutate: func(c *Config) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{GroupID: 42, PayerName: "Alice Smith"}
			cfg.AI.APIKey = "key"
			cfg.Splitwise.AccessToken = "token"
			tt.mutate(cfg)

			err := cfg.ValidateForUpload()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoadToken(t *testing.T) {
	isolateEnv(t)

	require.NoError(t, SaveToken("saved-token"))

	info, err := os.Stat(TokenFilePath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, filepath.Base(TokenFilePath()), "token.json")

	assert.Equal(t, "saved-token", loadStoredToken())

	cfg, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "saved-token", cfg.Splitwise.AccessToken)
}

func TestLoadStoredTokenMissingFile(t *testing.T) {
	isolateEnv(t)
	assert.Equal(t, "", loadStoredToken())
}
