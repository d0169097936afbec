package cache

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/joaopjk/moto-manager/internal/metrics"
)

// Fetch loads the authoritative value when both tiers miss.
type Fetch func(ctx context.Context) (any, error)

// DegradingCache composes the memory tier over the distributed tier over a
// caller-supplied fetch: reads degrade gracefully through progressively
// slower layers toward the system of record.
//
// Concurrent callers racing on a miss each invoke fetch independently; the
// fetch path is expected to be read-only and idempotent, so no per-key
// coalescing is performed. Cache population races resolve last-write-wins.
type DegradingCache struct {
	memory      *MemoryTier
	distributed DistributedTier
	serializer  Serializer
	recorder    metrics.Recorder
	logger      *slog.Logger
}

// NewDegradingCache composes the two tiers.
func NewDegradingCache(memory *MemoryTier, distributed DistributedTier, recorder metrics.Recorder, logger *slog.Logger) *DegradingCache {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DegradingCache{
		memory:      memory,
		distributed: distributed,
		serializer:  NewJSONSerializer(),
		recorder:    recorder,
		logger:      logger.With("component", "degrading-cache"),
	}
}

// GetOrSet resolves key through memory, then the distributed tier, then
// fetch, unmarshaling the result into dest. An absent value (nil fetch
// result) is returned without being stored in either tier and leaves dest
// untouched. Distributed-tier faults propagate to the caller; callers that
// want to degrade further under an outage must wrap GetOrSet themselves.
func (c *DegradingCache) GetOrSet(ctx context.Context, key string, dest any, fetch Fetch, memoryTTL, distributedTTL time.Duration) error {
	start := time.Now()

	data, err := c.memory.Get(ctx, key)
	if err == nil {
		c.recorder.RecordCacheHit(c.memory.Name(), time.Since(start))
		return c.serializer.Unmarshal(data, dest)
	}
	if !IsCacheMiss(err) {
		return err
	}
	c.recorder.RecordCacheMiss(c.memory.Name(), time.Since(start))

	data, err = c.distributed.GetOrSet(ctx, key, distributedTTL, func(ctx context.Context) ([]byte, error) {
		value, fetchErr := fetch(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if isNilValue(value) {
			return nil, nil
		}
		return c.serializer.Marshal(value)
	})
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	if setErr := c.memory.Set(ctx, key, data, memoryTTL); setErr != nil {
		// Memory population is best-effort; the value is already resolved.
		c.logger.Warn("failed to populate memory tier", "key", key, "error", setErr)
	}

	return c.serializer.Unmarshal(data, dest)
}

// isNilValue reports whether v is nil, including typed nils carried in an
// interface (nil pointers, slices, maps).
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
