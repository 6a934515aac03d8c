package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from keys set on the developer machine.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"HANMADI_LLM_PROVIDER", "HANMADI_GEMINI_API_KEY", "HANMADI_DB_DSN", "HANMADI_ADDR",
		"HANMADI_CORS_ORIGINS", "HANMADI_LLM_TIMEOUT", "HANMADI_LLM_RETRY_ATTEMPTS",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("HANMADI_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HANMADI_DB", filepath.Join(t.TempDir(), "x.db"))

	v, err := New()
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Addr)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultCORSOrigins, cfg.CORSOrigins)
	assert.Equal(t, time.Hour, cfg.StatusRefresh)
	assert.Equal(t, os.Getenv("HANMADI_DB"), cfg.DBDSN)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Gemini.Model)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 1, cfg.LLM.Retry.MaxAttempts)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HANMADI_ADDR", ":9090")
	t.Setenv("HANMADI_DB_DSN", "postgres://u:p@localhost/hanmadi")
	t.Setenv("HANMADI_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("HANMADI_LLM_PROVIDER", "anthropic")
	t.Setenv("HANMADI_ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("HANMADI_LLM_TIMEOUT", "15s")
	t.Setenv("HANMADI_LLM_RETRY_ATTEMPTS", "3")

	v, err := New()
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres://u:p@localhost/hanmadi", cfg.DBDSN)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.NoError(t, cfg.LLM.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HANMADI_GEMINI_API_KEY=from-dotenv\n"), 0o600))
	t.Setenv("HANMADI_ENV_FILE", path)
	// godotenv never overrides variables that are already present.
	require.NoError(t, os.Unsetenv("HANMADI_GEMINI_API_KEY"))

	v, err := New()
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.LLM.Gemini.APIKey)
}

func TestLoadDiscoversVendorKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	v, err := New()
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-openai", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
}
