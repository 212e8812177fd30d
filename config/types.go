package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Veezi     VeeziConfig     `mapstructure:"veezi"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// VeeziConfig holds Veezi API connection details
type VeeziConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig controls response caching. Routes maps a route name such as
// "v1/session" to its own TTL; a zero TTL disables caching for that route.
type CacheConfig struct {
	Enabled bool                     `mapstructure:"enabled"`
	TTL     time.Duration            `mapstructure:"ttl"`
	Routes  map[string]time.Duration `mapstructure:"routes"`
}

// RateLimitConfig bounds outbound requests. A zero RPS means unlimited.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// FilterConfig contains filter definitions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
