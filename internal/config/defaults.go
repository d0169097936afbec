package config

import "time"

// Default returns a configuration with development defaults.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "moto-manager",
			HTTPAddress: ":8080",
		},
		Database: DatabaseConfig{
			DSN:     NewSecretString("root:root@tcp(localhost:3306)/motomanager?parseTime=true"),
			MaxIdle: 10,
			MaxOpen: 100,
		},
		Memory: MemoryConfig{
			Enabled:         true,
			MaxSizeMB:       64,
			DefaultTTL:      10 * time.Minute,
			CleanupInterval: 10 * time.Second,
			Shards:          256,
			MaxEntrySize:    1024 * 1024, // 1MB
		},
		Redis: RedisConfig{
			Address:      "localhost:6379",
			Password:     SecretString{},
			KeyPrefix:    "motomanager:",
			DB:           0,
			DefaultTTL:   30 * time.Minute,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     50,
			MinIdleConns: 5,
		},
		Broker: BrokerConfig{
			Host:             "localhost",
			Port:             5672,
			User:             "guest",
			Password:         NewSecretString("guest"),
			Exchange:         "motocycle-exchange",
			RoutingKey:       "motocycle.created",
			MaterializeQueue: "rental-created-queue",
			ShowYearQueue:    "rental-show-year-queue",
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			AgentHost: "127.0.0.1",
			Port:      8125,
			Prefix:    "motomanager",
			Tags:      []string{},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ForTesting returns a minimal configuration suitable for unit tests.
func ForTesting() *Config {
	cfg := Default()
	cfg.Memory.MaxSizeMB = 16
	cfg.Memory.DefaultTTL = time.Minute
	cfg.Memory.CleanupInterval = time.Second
	cfg.Memory.Shards = 64
	cfg.Metrics.Enabled = false
	return cfg
}
