package cache

import (
	"context"
	"time"
)

// DisabledDistributedTier is a DistributedTier that stores nothing and
// always invokes fetch. Used when no shared cache is deployed, and in unit
// tests where Redis is unavailable.
type DisabledDistributedTier struct{}

// NewDisabledDistributedTier creates a disabled distributed tier.
func NewDisabledDistributedTier() *DisabledDistributedTier {
	return &DisabledDistributedTier{}
}

// Name returns the tier name.
func (t *DisabledDistributedTier) Name() string {
	return "disabled"
}

// GetOrSet delegates straight to fetch.
func (t *DisabledDistributedTier) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetch BytesFetch) ([]byte, error) {
	return fetch(ctx)
}

var _ DistributedTier = (*DisabledDistributedTier)(nil)
