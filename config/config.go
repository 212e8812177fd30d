package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/s0up4200/veezi/veezi"
)

// Environment variables that override the config file
const (
	EnvURL    = "VEEZI_URL"
	EnvAPIKey = "VEEZI_KEY"
)

// Load loads the configuration from file. Without an explicit path a missing
// file is not an error, so the URL and key may come from the environment
// alone.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if err := v.BindEnv("veezi.url", EnvURL); err != nil {
		return nil, fmt.Errorf("error binding %s: %w", EnvURL, err)
	}
	if err := v.BindEnv("veezi.api_key", EnvAPIKey); err != nil {
		return nil, fmt.Errorf("error binding %s: %w", EnvAPIKey, err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".veezi"))
		}
		v.AddConfigPath("/etc/veezi/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("veezi.url", "https://api.us.veezi.com")
	v.SetDefault("veezi.timeout", veezi.DefaultTimeout)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", veezi.DefaultCacheTTL)

	v.SetDefault("rate_limit.rps", 0)
	v.SetDefault("rate_limit.burst", 1)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Veezi.URL == "" {
		return fmt.Errorf("veezi.url is required")
	}

	if cfg.Veezi.APIKey == "" || cfg.Veezi.APIKey == "your-api-key-here" {
		return fmt.Errorf("veezi.api_key must be set to a valid API key")
	}

	if cfg.Veezi.Timeout <= 0 {
		return fmt.Errorf("veezi.timeout must be positive")
	}

	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when caching is enabled")
	}
	for name := range cfg.Cache.Routes {
		if _, err := veezi.ParseRoute(name); err != nil {
			return fmt.Errorf("invalid cache.routes entry: %w", err)
		}
	}

	if cfg.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must not be negative")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// CachePolicy converts the cache section into a client cache policy
func (c *Config) CachePolicy() veezi.CachePolicy {
	if !c.Cache.Enabled {
		return veezi.NoCache()
	}
	if len(c.Cache.Routes) == 0 {
		return veezi.CustomTTL(c.Cache.TTL)
	}

	routes := make(map[veezi.Route]time.Duration, len(c.Cache.Routes))
	for name, ttl := range c.Cache.Routes {
		route, err := veezi.ParseRoute(name)
		if err != nil {
			continue // rejected by validate
		}
		routes[route] = ttl
	}
	policy := veezi.PerRoute(routes)
	policy.TTL = c.Cache.TTL
	return policy
}

// Builder returns a client builder configured from c
func (c *Config) Builder(logger zerolog.Logger) veezi.Builder {
	return veezi.NewBuilder().
		WithBaseURL(c.Veezi.URL).
		WithAPIKey(c.Veezi.APIKey).
		WithTimeout(c.Veezi.Timeout).
		WithLogger(logger).
		WithCachePolicy(c.CachePolicy()).
		WithRateLimit(c.RateLimit.RPS, c.RateLimit.Burst)
}
