// Package config loads hanmadi settings from HANMADI_* environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/hanmadi/internal/llm"
	"github.com/abhisek/hanmadi/internal/store"
)

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "HANMADI"

// DefaultCORSOrigins are the local frontend dev servers.
var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// Config is the resolved application configuration.
type Config struct {
	Addr          string
	Debug         bool
	LogLevel      string
	LogJSON       bool
	DBDSN         string
	CORSOrigins   []string
	StatusRefresh time.Duration
	LLM           llm.Config
}

// New returns a viper instance with defaults and environment bindings set.
// The optional .env file named by HANMADI_ENV_FILE (default ".env") is
// loaded into the process environment first; a missing file is ignored.
func New() (*viper.Viper, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)

	llmDefaults := llm.DefaultConfig()
	v.SetDefault("addr", ":8000")
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("db_dsn", "")
	v.SetDefault("cors_origins", DefaultCORSOrigins)
	v.SetDefault("status_refresh", time.Hour)
	v.SetDefault("llm_provider", llmDefaults.Provider)
	v.SetDefault("llm_timeout", llmDefaults.Timeout)
	v.SetDefault("llm_retry_attempts", llmDefaults.Retry.MaxAttempts)
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", llmDefaults.Gemini.Model)
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("anthropic_model", llmDefaults.Anthropic.Model)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_model", llmDefaults.OpenAI.Model)
	v.SetDefault("openai_base_url", "")
	v.SetDefault("openrouter_api_key", "")
	v.SetDefault("openrouter_model", llmDefaults.OpenRouter.Model)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v, nil
}

func loadDotEnv() error {
	path := os.Getenv(EnvPrefix + "_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load resolves a Config from v. An empty db_dsn falls back to the default
// data path. When no provider was chosen explicitly and the default
// provider has no key, the vendors' own API key variables are probed.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Addr:          v.GetString("addr"),
		Debug:         v.GetBool("debug"),
		LogLevel:      v.GetString("log_level"),
		LogJSON:       v.GetBool("log_json"),
		DBDSN:         v.GetString("db_dsn"),
		CORSOrigins:   splitList(v.GetStringSlice("cors_origins")),
		StatusRefresh: v.GetDuration("status_refresh"),
	}
	if cfg.DBDSN == "" {
		path, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		cfg.DBDSN = path
	}

	l := llm.DefaultConfig()
	l.Provider = strings.ToLower(v.GetString("llm_provider"))
	l.Timeout = v.GetDuration("llm_timeout")
	l.Retry.MaxAttempts = v.GetInt("llm_retry_attempts")
	l.Gemini = llm.GeminiConfig{APIKey: v.GetString("gemini_api_key"), Model: v.GetString("gemini_model")}
	l.Anthropic = llm.AnthropicConfig{APIKey: v.GetString("anthropic_api_key"), Model: v.GetString("anthropic_model")}
	l.OpenAI = llm.OpenAIConfig{
		APIKey:  v.GetString("openai_api_key"),
		Model:   v.GetString("openai_model"),
		BaseURL: v.GetString("openai_base_url"),
	}
	l.OpenRouter.APIKey = v.GetString("openrouter_api_key")
	l.OpenRouter.Model = v.GetString("openrouter_model")

	if l.Validate() != nil && os.Getenv(EnvPrefix+"_LLM_PROVIDER") == "" {
		if found, ok := llm.DiscoverConfig(); ok {
			adoptDiscovered(&l, found)
		}
	}
	cfg.LLM = l
	return cfg, nil
}

// adoptDiscovered switches l to the provider found in the environment,
// keeping configured models and limits.
func adoptDiscovered(l *llm.Config, found llm.Config) {
	l.Provider = found.Provider
	switch found.Provider {
	case "gemini":
		l.Gemini.APIKey = found.Gemini.APIKey
	case "openai":
		l.OpenAI.APIKey = found.OpenAI.APIKey
	case "anthropic":
		l.Anthropic.APIKey = found.Anthropic.APIKey
	case "openrouter":
		l.OpenRouter.APIKey = found.OpenRouter.APIKey
	}
}

// splitList accepts both list values and a single comma-separated string.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
