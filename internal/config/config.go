package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/utkuyucel/ibbtraffic/pkg/reader"
)

// Storage backend names accepted by StorageConfig.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds all configuration for the traffic reader service
type Config struct {
	// Server configuration
	HTTPPort int    `env:"TRAFFIC_HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Traffic API configuration
	API APIConfig

	// Storage configuration
	Storage StorageConfig

	// Redis configuration
	Redis RedisConfig

	// Worker configuration
	Workers WorkerConfig

	// Poll configuration
	Poll PollConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// APIConfig holds traffic API client configuration
type APIConfig struct {
	BaseURL        string        `env:"TRAFFIC_API_BASE_URL"`
	RequestTimeout time.Duration `env:"TRAFFIC_API_TIMEOUT" envDefault:"30s"`
	UserAgent      string        `env:"TRAFFIC_API_USER_AGENT" envDefault:"ibbtraffic/1.0"`

	// Endpoints polled by the service
	Endpoints []string `env:"TRAFFIC_ENDPOINTS" envSeparator:"," envDefault:"TrafficIndex_Sc1_Cont"`
}

// StorageConfig holds snapshot storage configuration
type StorageConfig struct {
	Backend      string        `env:"STORAGE_BACKEND" envDefault:"memory"`
	SnapshotTTL  time.Duration `env:"STORAGE_SNAPSHOT_TTL" envDefault:"24h"`
	HistoryLimit int           `env:"STORAGE_HISTORY_LIMIT" envDefault:"100"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// WorkerConfig holds fetch worker pool configuration
type WorkerConfig struct {
	PoolSize            int           `env:"WORKER_POOL_SIZE" envDefault:"3"`
	HealthCheckInterval time.Duration `env:"WORKER_HEALTH_CHECK_INTERVAL" envDefault:"30s"`
}

// PollConfig holds poll loop configuration
type PollConfig struct {
	Interval     time.Duration `env:"POLL_INTERVAL" envDefault:"60s"`
	FetchTimeout time.Duration `env:"POLL_FETCH_TIMEOUT" envDefault:"45s"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = reader.DefaultBaseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("traffic API base URL is required")
	}
	if len(c.API.Endpoints) == 0 {
		return fmt.Errorf("at least one traffic endpoint is required")
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s (must be %s or %s)",
			c.Storage.Backend, BackendMemory, BackendRedis)
	}

	if c.Storage.HistoryLimit < 1 {
		return fmt.Errorf("history limit must be at least 1")
	}

	if c.Workers.PoolSize < 1 {
		return fmt.Errorf("worker pool size must be at least 1")
	}

	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
