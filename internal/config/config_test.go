package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"port": "9090",
		"api_key": "test-key",
		"database_url": "postgres://localhost/skills",
		"remote_timeout_sec": 30,
		"kb_limit": 3
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "postgres://localhost/skills", cfg.DatabaseURL)
	assert.Equal(t, 30, cfg.RemoteTimeoutSec)
	assert.Equal(t, 3, cfg.KBLimit)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeConfig(t, `{not json`)
	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "failed to parse config JSON")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("DATABASE_URL", "postgres://env/db")

	cfg := FromEnv()
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
}

func TestValidate(t *testing.T) {
	cfg := Config{}
	assert.NoError(t, cfg.Validate())

	cfg = Config{RemoteTimeoutSec: -1}
	assert.ErrorContains(t, cfg.Validate(), "remote_timeout_sec")

	cfg = Config{KBLimit: -1}
	assert.ErrorContains(t, cfg.Validate(), "kb_limit")
}

func TestMergeWithDefaults(t *testing.T) {
	env := Config{APIKey: "env-key"}
	file := Config{APIKey: "file-key", DatabaseURL: "postgres://file/db", Port: "9090"}

	merged := env.MergeWithDefaults(file)
	// Environment wins where set, the file fills the rest.
	assert.Equal(t, "env-key", merged.APIKey)
	assert.Equal(t, "postgres://file/db", merged.DatabaseURL)
	assert.Equal(t, "9090", merged.Port)
}

func TestMergeWithDefaults_BuiltinFallbacks(t *testing.T) {
	merged := (&Config{}).MergeWithDefaults(Config{})
	assert.Equal(t, "8080", merged.Port)
	assert.Equal(t, 20, merged.RemoteTimeoutSec)
	assert.Zero(t, merged.KBLimit)
}
