// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Alchemy AlchemyConfig `mapstructure:"alchemy"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AlchemyConfig holds upstream indexing API configuration
type AlchemyConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	ItemDelay  time.Duration `mapstructure:"item_delay"`
}

// GeminiConfig holds text generation configuration. An empty APIKey disables
// generation; the engines fall back to their deterministic paths.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// CacheConfig holds collection cache configuration
type CacheConfig struct {
	ProgressFloor int `mapstructure:"progress_floor"`
	ProgressCeil  int `mapstructure:"progress_ceil"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables. An empty path
// skips the file and uses defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("NFT_PERSONA_LAB")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Alchemy defaults
	v.SetDefault("alchemy.base_url", "https://eth-mainnet.g.alchemy.com")
	v.SetDefault("alchemy.timeout", "10s")
	v.SetDefault("alchemy.max_retries", 3)
	v.SetDefault("alchemy.retry_delay", "500ms")
	v.SetDefault("alchemy.item_delay", "150ms")

	// Gemini defaults
	v.SetDefault("gemini.model", "gemini-2.0-flash")

	// Cache defaults
	v.SetDefault("cache.progress_floor", 10)
	v.SetDefault("cache.progress_ceil", 95)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Alchemy.BaseURL == "" {
		return fmt.Errorf("alchemy.base_url is required")
	}
	if c.Alchemy.APIKey == "" {
		return fmt.Errorf("alchemy.api_key is required")
	}
	if c.Alchemy.Timeout <= 0 {
		return fmt.Errorf("alchemy.timeout must be positive")
	}
	if c.Alchemy.MaxRetries < 0 {
		return fmt.Errorf("alchemy.max_retries must not be negative")
	}
	if c.Alchemy.ItemDelay < 0 {
		return fmt.Errorf("alchemy.item_delay must not be negative")
	}
	if c.Gemini.Model == "" {
		return fmt.Errorf("gemini.model is required")
	}
	if c.Cache.ProgressFloor < 0 || c.Cache.ProgressCeil > 100 ||
		c.Cache.ProgressFloor >= c.Cache.ProgressCeil {
		return fmt.Errorf("cache progress window must satisfy 0 <= floor < ceil <= 100")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console")
	}
	return nil
}
