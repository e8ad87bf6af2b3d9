package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the careforms binaries.
type Config struct {
	ServiceURL     string        `mapstructure:"SERVICE_URL"`
	OutputDir      string        `mapstructure:"OUTPUT_DIR"`
	LookupDebounce time.Duration `mapstructure:"LOOKUP_DEBOUNCE"`
	LookupCacheTTL time.Duration `mapstructure:"LOOKUP_CACHE_TTL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	Env            string        `mapstructure:"ENV"`
	ThemeVariant   string        `mapstructure:"THEME_VARIANT"`
}

var keys = []string{
	"SERVICE_URL",
	"OUTPUT_DIR",
	"LOOKUP_DEBOUNCE",
	"LOOKUP_CACHE_TTL",
	"REQUEST_TIMEOUT",
	"LOG_LEVEL",
	"ENV",
	"THEME_VARIANT",
}

// Load reads ".env" from the working directory and the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile reads settings from the given dotenv file, if it exists, with
// environment variables taking precedence.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_URL", "http://localhost:5000")
	v.SetDefault("OUTPUT_DIR", ".")
	v.SetDefault("LOOKUP_DEBOUNCE", 500*time.Millisecond)
	v.SetDefault("LOOKUP_CACHE_TTL", time.Minute)
	v.SetDefault("REQUEST_TIMEOUT", 5*time.Minute)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENV", "development")
	v.SetDefault("THEME_VARIANT", "")

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	// Missing file is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ServiceURL = strings.TrimRight(strings.TrimSpace(cfg.ServiceURL), "/")
	return cfg, nil
}

// IsDev reports whether ENV is "development".
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration can drive a session.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServiceURL)
	if err != nil {
		return fmt.Errorf("SERVICE_URL is not a valid URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SERVICE_URL must be an absolute http(s) URL, got %q", c.ServiceURL)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	if c.LookupDebounce < 0 {
		return fmt.Errorf("LOOKUP_DEBOUNCE must not be negative, got %s", c.LookupDebounce)
	}
	if c.LookupCacheTTL < 0 {
		return fmt.Errorf("LOOKUP_CACHE_TTL must not be negative, got %s", c.LookupCacheTTL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	switch c.Env {
	case "development", "production", "test":
	default:
		return fmt.Errorf("ENV must be \"development\", \"production\", or \"test\", got %q", c.Env)
	}
	return nil
}
