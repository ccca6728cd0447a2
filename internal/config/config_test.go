package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL", "SERVER_PORT", "LOG_LEVEL",
		"LOG_FORMAT", "PAGE_FETCH_MODE", "PAGE_FETCH_TIMEOUT", "PAGE_FETCH_MAX_BYTES", "MCP_ENABLED",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), ".env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load(viper.New(), missingEnvFile(t), nil)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-3-flash-preview", cfg.GeminiModel)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, FetchOff, cfg.PageFetchMode)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout())
	assert.Equal(t, int64(512*1024), cfg.PageFetchMaxBytes)
	assert.True(t, cfg.MCPEnabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PAGE_FETCH_MODE", " HTTP ")
	t.Setenv("MCP_ENABLED", "false")

	cfg, err := load(viper.New(), missingEnvFile(t), nil)
	require.NoError(t, err)

	assert.Equal(t, "key-123", cfg.GeminiAPIKey)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, FetchHTTP, cfg.PageFetchMode)
	assert.False(t, cfg.MCPEnabled)
}

func TestLoadAPIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "legacy-key")

	cfg, err := load(viper.New(), missingEnvFile(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GEMINI_API_KEY=from-file\nLOG_FORMAT=console\n"), 0o600))

	cfg, err := load(viper.New(), envFile, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.GeminiAPIKey)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_MODEL", "env-model")
	t.Setenv("SERVER_PORT", "7000")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("model", "", "")
	flags.String("port", "", "")
	require.NoError(t, flags.Parse([]string{"--model", "flag-model"}))

	cfg, err := load(viper.New(), missingEnvFile(t), flags)
	require.NoError(t, err)
	assert.Equal(t, "flag-model", cfg.GeminiModel)
	assert.Equal(t, "7000", cfg.ServerPort, "unset flags must not shadow the environment")
}

func TestValidate(t *testing.T) {
	valid := Config{
		GeminiModel:       "m",
		LogFormat:         "json",
		PageFetchMode:     FetchOff,
		PageFetchTimeout:  1,
		PageFetchMaxBytes: 1,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad fetch mode", func(c *Config) { c.PageFetchMode = "curl" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
		{"empty model", func(c *Config) { c.GeminiModel = " " }},
		{"zero timeout", func(c *Config) { c.PageFetchTimeout = 0 }},
		{"zero max bytes", func(c *Config) { c.PageFetchMaxBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
