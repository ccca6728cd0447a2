package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Page fetch modes.
const (
	FetchOff     = "off"
	FetchHTTP    = "http"
	FetchBrowser = "browser"
)

// Config stores all configuration for the application.
type Config struct {
	GeminiAPIKey      string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel       string `mapstructure:"GEMINI_MODEL"`
	GeminiBaseURL     string `mapstructure:"GEMINI_BASE_URL"`
	ServerPort        string `mapstructure:"SERVER_PORT"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	LogFormat         string `mapstructure:"LOG_FORMAT"`
	PageFetchMode     string `mapstructure:"PAGE_FETCH_MODE"`
	PageFetchTimeout  int    `mapstructure:"PAGE_FETCH_TIMEOUT"`
	PageFetchMaxBytes int64  `mapstructure:"PAGE_FETCH_MAX_BYTES"`
	MCPEnabled        bool   `mapstructure:"MCP_ENABLED"`
}

// flagKeys maps CLI flag names onto configuration keys.
var flagKeys = map[string]string{
	"api-key":    "GEMINI_API_KEY",
	"model":      "GEMINI_MODEL",
	"port":       "SERVER_PORT",
	"log-level":  "LOG_LEVEL",
	"log-format": "LOG_FORMAT",
	"fetch":      "PAGE_FETCH_MODE",
}

// Load reads configuration from the .env file, environment variables and,
// when flags is non-nil, any of the known flags the user actually set.
func Load(flags *pflag.FlagSet) (*Config, error) {
	return load(viper.New(), ".env", flags)
}

func load(v *viper.Viper, envFile string, flags *pflag.FlagSet) (*Config, error) {
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present
	_ = v.ReadInConfig()

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-3-flash-preview")
	v.SetDefault("GEMINI_BASE_URL", "")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PAGE_FETCH_MODE", FetchOff)
	v.SetDefault("PAGE_FETCH_TIMEOUT", 15) // in seconds
	v.SetDefault("PAGE_FETCH_MAX_BYTES", 512*1024)
	v.SetDefault("MCP_ENABLED", true)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = v.GetString("API_KEY")
	}
	cfg.PageFetchMode = strings.ToLower(strings.TrimSpace(cfg.PageFetchMode))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	return &cfg, nil
}

// Validate rejects settings the service cannot run with. A missing API key
// is allowed here; it is reported per request instead.
func (c *Config) Validate() error {
	switch c.PageFetchMode {
	case FetchOff, FetchHTTP, FetchBrowser:
	default:
		return fmt.Errorf("PAGE_FETCH_MODE must be one of off, http, browser (got %q)", c.PageFetchMode)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console (got %q)", c.LogFormat)
	}
	if strings.TrimSpace(c.GeminiModel) == "" {
		return fmt.Errorf("GEMINI_MODEL must not be empty")
	}
	if c.PageFetchTimeout <= 0 {
		return fmt.Errorf("PAGE_FETCH_TIMEOUT must be greater than 0")
	}
	if c.PageFetchMaxBytes <= 0 {
		return fmt.Errorf("PAGE_FETCH_MAX_BYTES must be greater than 0")
	}
	return nil
}

// FetchTimeout is PAGE_FETCH_TIMEOUT as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.PageFetchTimeout) * time.Second
}
