// Package config provides configuration management for moto-manager.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains all configuration for the moto-manager services.
// It is built once in main and passed explicitly to constructors; domain
// logic never reads ambient process state.
type Config struct {
	Service  ServiceConfig  `envPrefix:"SERVICE_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Memory   MemoryConfig   `envPrefix:"MEMCACHE_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Broker   BrokerConfig   `envPrefix:"RABBITMQ_"`
	Metrics  MetricsConfig  `envPrefix:"METRICS_"`
	Log      LogConfig      `envPrefix:"LOG_"`
}

// ServiceConfig identifies the running process.
type ServiceConfig struct {
	Name        string `env:"NAME"`
	HTTPAddress string `env:"HTTP_ADDRESS"`
}

// DatabaseConfig contains settings for the relational store.
type DatabaseConfig struct {
	DSN     SecretString `env:"DSN"`
	MaxIdle int          `env:"MAX_IDLE"`
	MaxOpen int          `env:"MAX_OPEN"`
}

// MemoryConfig contains configuration for the in-process cache tier.
type MemoryConfig struct {
	Enabled         bool          `env:"ENABLED"`
	MaxSizeMB       int           `env:"MAX_SIZE_MB"`
	DefaultTTL      time.Duration `env:"DEFAULT_TTL"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL"`
	Shards          int           `env:"SHARDS"`
	MaxEntrySize    int           `env:"MAX_ENTRY_SIZE"`
}

// RedisConfig contains configuration for the distributed cache tier.
type RedisConfig struct {
	Address      string        `env:"ADDRESS"`
	Password     SecretString  `env:"PASSWORD"`
	KeyPrefix    string        `env:"KEY_PREFIX"`
	DB           int           `env:"DB"`
	DefaultTTL   time.Duration `env:"DEFAULT_TTL"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT"`
	PoolSize     int           `env:"POOL_SIZE"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS"`
}

// BrokerConfig contains the message broker connection and topology settings.
type BrokerConfig struct {
	Host             string       `env:"HOST"`
	Port             int          `env:"PORT"`
	User             string       `env:"USER"`
	Password         SecretString `env:"PASSWORD"`
	Exchange         string       `env:"EXCHANGENAME"`
	RoutingKey       string       `env:"ROUTINGKEY"`
	MaterializeQueue string       `env:"MATERIALIZE_QUEUE"`
	ShowYearQueue    string       `env:"SHOWYEAR_QUEUE"`
}

// URL builds the AMQP connection URL.
func (c BrokerConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.User, c.Password.Value(), c.Host, c.Port)
}

// MetricsConfig contains configuration for StatsD metrics publishing.
type MetricsConfig struct {
	Enabled   bool     `env:"ENABLED"`
	AgentHost string   `env:"AGENT_HOST"`
	Port      int      `env:"AGENT_PORT"`
	Prefix    string   `env:"PREFIX"`
	Tags      []string `env:"TAGS"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `env:"LEVEL"`
}

// Load returns the default configuration with environment overrides applied.
func Load() (*Config, error) {
	cfg := Default()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that would otherwise only fail deep inside a
// component at an awkward time.
func (c *Config) Validate() error {
	if c.Memory.Enabled && c.Memory.MaxSizeMB <= 0 {
		return errors.New("config: memory cache max size must be positive")
	}
	if c.Broker.Exchange == "" {
		return errors.New("config: broker exchange name is required")
	}
	if c.Broker.RoutingKey == "" {
		return errors.New("config: broker routing key is required")
	}
	return nil
}
