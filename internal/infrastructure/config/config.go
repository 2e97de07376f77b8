// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Provider   ProviderConfig   `mapstructure:"provider"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`

	v *viper.Viper
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	MaxHeaderBytes    int           `mapstructure:"max_header_bytes"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	EnableCORS        bool          `mapstructure:"enable_cors"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	EnableCompression bool          `mapstructure:"enable_compression"`
}

// ProviderConfig configures the third-party recipe API client
type ProviderConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	APIKey             string        `mapstructure:"api_key"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RequestsPerSecond  float64       `mapstructure:"requests_per_second"`
	Burst              int           `mapstructure:"burst"`
	DefaultResultCount int           `mapstructure:"default_result_count"`

	// Circuit breaker
	BreakerMaxRequests  uint32        `mapstructure:"breaker_max_requests"`
	BreakerInterval     time.Duration `mapstructure:"breaker_interval"`
	BreakerTimeout      time.Duration `mapstructure:"breaker_timeout"`
	BreakerFailureRatio float64       `mapstructure:"breaker_failure_ratio"`
	BreakerMinRequests  uint32        `mapstructure:"breaker_min_requests"`

	// Search response cache
	CacheEnabled bool          `mapstructure:"cache_enabled"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Password        string        `mapstructure:"password"`
	Database        int           `mapstructure:"database"`
	MaxRetries      int           `mapstructure:"max_retries"`
	MinIdleConns    int           `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PoolSize        int           `mapstructure:"pool_size"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics   bool          `mapstructure:"enable_metrics"`
	EnableTracing   bool          `mapstructure:"enable_tracing"`
	OTLPEndpoint    string        `mapstructure:"otlp_endpoint"`
	OTLPInsecure    bool          `mapstructure:"otlp_insecure"`
	SamplingRate    float64       `mapstructure:"sampling_rate"`
	HealthCheckPath string        `mapstructure:"health_check_path"`
	ReadinessPath   string        `mapstructure:"readiness_path"`
	MetricsPath     string        `mapstructure:"metrics_path"`
	HealthCacheTTL  time.Duration `mapstructure:"health_cache_ttl"`
}

// RateLimitConfig contains inbound rate limiting configuration
type RateLimitConfig struct {
	Enable          bool          `mapstructure:"enable"`
	RequestsPerMin  int           `mapstructure:"requests_per_min"`
	BurstSize       int           `mapstructure:"burst_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/nutrimatch")
	}

	// Enable environment variable override
	v.SetEnvPrefix("NUTRIMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	config, err := decode(v)
	if err != nil {
		return nil, err
	}
	config.v = v

	return config, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Watch re-reads the config file whenever it changes and hands the new
// configuration to onChange. Invalid edits are reported through onError and
// otherwise ignored. It is a no-op when no config file was found.
func (c *Config) Watch(onChange func(next *Config, event fsnotify.Event), onError func(error)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}

	c.v.OnConfigChange(func(event fsnotify.Event) {
		if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
			return
		}
		next, err := decode(c.v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		next.v = c.v
		onChange(next, event)
	})
	c.v.WatchConfig()
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "nutrimatch")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.request_timeout", "25s")
	v.SetDefault("server.max_header_bytes", 1<<20) // 1MB
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.enable_cors", true)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.enable_compression", true)

	// Provider defaults
	v.SetDefault("provider.base_url", "https://api.spoonacular.com")
	v.SetDefault("provider.timeout", "10s")
	v.SetDefault("provider.requests_per_second", 5)
	v.SetDefault("provider.burst", 5)
	v.SetDefault("provider.default_result_count", 10)
	v.SetDefault("provider.breaker_max_requests", 1)
	v.SetDefault("provider.breaker_interval", "60s")
	v.SetDefault("provider.breaker_timeout", "30s")
	v.SetDefault("provider.breaker_failure_ratio", 0.6)
	v.SetDefault("provider.breaker_min_requests", 5)
	v.SetDefault("provider.cache_enabled", true)
	v.SetDefault("provider.cache_ttl", "10m")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.key_prefix", "nutrimatch:")

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
	v.SetDefault("monitoring.enable_tracing", false)
	v.SetDefault("monitoring.otlp_endpoint", "localhost:4318")
	v.SetDefault("monitoring.otlp_insecure", true)
	v.SetDefault("monitoring.sampling_rate", 0.1)
	v.SetDefault("monitoring.health_check_path", "/health")
	v.SetDefault("monitoring.readiness_path", "/ready")
	v.SetDefault("monitoring.metrics_path", "/metrics")
	v.SetDefault("monitoring.health_cache_ttl", "5s")

	// Rate limit defaults
	v.SetDefault("rate_limit.enable", true)
	v.SetDefault("rate_limit.requests_per_min", 120)
	v.SetDefault("rate_limit.burst_size", 20)
	v.SetDefault("rate_limit.cleanup_interval", "5m")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate required fields
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if c.Provider.APIKey == "" && c.IsProduction() {
		return fmt.Errorf("provider.api_key is required in production")
	}

	if _, err := url.ParseRequestURI(c.Provider.BaseURL); err != nil {
		return fmt.Errorf("provider.base_url is invalid: %w", err)
	}

	if c.Provider.RequestsPerSecond <= 0 {
		return fmt.Errorf("provider.requests_per_second must be positive")
	}

	if c.Provider.BreakerFailureRatio <= 0 || c.Provider.BreakerFailureRatio > 1 {
		return fmt.Errorf("provider.breaker_failure_ratio must be in (0, 1]")
	}

	// Validate port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Monitoring.SamplingRate < 0 || c.Monitoring.SamplingRate > 1 {
		return fmt.Errorf("monitoring.sampling_rate must be between 0 and 1")
	}

	if c.Monitoring.HealthCacheTTL < 0 {
		return fmt.Errorf("monitoring.health_cache_ttl must not be negative")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// RedisAddr returns the host:port of the Redis server
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// ListenAddr returns the host:port the HTTP server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
