package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joaopjk/moto-manager/internal/config"
)

// BytesFetch loads the authoritative value as serialized bytes.
// A nil slice with a nil error means the source had no value; tiers must
// not store it.
type BytesFetch func(ctx context.Context) ([]byte, error)

// DistributedTier is the shared cache layer sitting in front of the system
// of record.
type DistributedTier interface {
	// GetOrSet returns the cached bytes for key, or invokes fetch on a
	// miss, stores a non-nil result with ttl, and returns it. Faults
	// propagate to the caller; there is no silent fallback to fetch.
	GetOrSet(ctx context.Context, key string, ttl time.Duration, fetch BytesFetch) ([]byte, error)
}

// RedisTier is the Redis-backed distributed tier.
type RedisTier struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisTier creates a distributed tier from config.
func NewRedisTier(cfg config.RedisConfig, logger *slog.Logger) *RedisTier {
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password.Value(),
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	return &RedisTier{
		client: client,
		prefix: cfg.KeyPrefix,
		logger: logger.With("component", "redis-tier"),
	}
}

// Name returns the tier name.
func (t *RedisTier) Name() string {
	return "redis"
}

// GetOrSet implements DistributedTier on Redis. Expiry is absolute from the
// write; hits do not refresh the TTL.
func (t *RedisTier) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetch BytesFetch) ([]byte, error) {
	prefixed := t.prefix + key

	data, err := t.client.Get(ctx, prefixed).Bytes()
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, newCacheError("Get", key, t.Name(), err)
	}

	data, err = fetch(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		// Never cache an absent value; a later successful write must be
		// observable on the next lookup.
		return nil, nil
	}

	if err := t.client.Set(ctx, prefixed, data, ttl).Err(); err != nil {
		return nil, newCacheError("Set", key, t.Name(), err)
	}
	return data, nil
}

// Ping checks connectivity.
func (t *RedisTier) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}

// Close closes the client.
func (t *RedisTier) Close() error {
	return t.client.Close()
}

var _ DistributedTier = (*RedisTier)(nil)
