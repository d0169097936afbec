package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/joaopjk/moto-manager/internal/config"
)

// MemoryTier is the in-process cache layer, backed by BigCache.
//
// BigCache only supports a cache-wide life window, so per-entry absolute
// expiry is enforced by framing each payload with its deadline: entries past
// their deadline are treated as misses on read. Expiry is absolute from the
// write, never sliding; a hit does not refresh the deadline.
type MemoryTier struct {
	cache  *bigcache.BigCache
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
	closed atomic.Bool
}

// deadline frame: 8 bytes of unix-nano deadline (0 = no deadline), then payload.
const deadlineFrameSize = 8

// NewMemoryTier creates a memory tier with the given configuration.
func NewMemoryTier(cfg config.MemoryConfig, logger *slog.Logger) (*MemoryTier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	bcConfig := bigcache.Config{
		Shards:             cfg.Shards,
		LifeWindow:         cfg.DefaultTTL,
		CleanWindow:        cfg.CleanupInterval,
		MaxEntriesInWindow: 1000 * 10 * 60,
		MaxEntrySize:       cfg.MaxEntrySize,
		HardMaxCacheSize:   cfg.MaxSizeMB,
		Verbose:            false,
	}

	bc, err := bigcache.New(context.Background(), bcConfig)
	if err != nil {
		return nil, err
	}

	return &MemoryTier{
		cache:  bc,
		logger: logger.With("component", "memory-tier"),
	}, nil
}

// Name returns the tier name.
func (t *MemoryTier) Name() string {
	return "memory"
}

// Get retrieves a value. Expired entries are deleted and reported as misses.
func (t *MemoryTier) Get(ctx context.Context, key string) ([]byte, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}

	framed, err := t.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			t.misses.Add(1)
			return nil, ErrCacheMiss
		}
		return nil, newCacheError("Get", key, t.Name(), err)
	}

	data, expired := unframe(framed, time.Now())
	if expired {
		_ = t.cache.Delete(key)
		t.misses.Add(1)
		return nil, ErrCacheMiss
	}

	t.hits.Add(1)
	return data, nil
}

// Set stores a value with an absolute expiry of ttl from now.
// A non-positive ttl stores the entry without a deadline of its own,
// leaving eviction to the cache-wide life window.
func (t *MemoryTier) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if t.closed.Load() {
		return ErrClosed
	}

	var deadline int64
	if ttl > 0 {
		deadline = time.Now().Add(ttl).UnixNano()
	}

	if err := t.cache.Set(key, frame(deadline, value)); err != nil {
		return newCacheError("Set", key, t.Name(), err)
	}
	return nil
}

// Delete removes a value.
func (t *MemoryTier) Delete(ctx context.Context, key string) error {
	if t.closed.Load() {
		return ErrClosed
	}

	if err := t.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return newCacheError("Delete", key, t.Name(), err)
	}
	return nil
}

// Stats returns hit/miss counters.
func (t *MemoryTier) Stats() (hits, misses int64) {
	return t.hits.Load(), t.misses.Load()
}

// Close releases the underlying cache.
func (t *MemoryTier) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	return t.cache.Close()
}

func frame(deadline int64, data []byte) []byte {
	framed := make([]byte, deadlineFrameSize+len(data))
	binary.BigEndian.PutUint64(framed, uint64(deadline))
	copy(framed[deadlineFrameSize:], data)
	return framed
}

func unframe(framed []byte, now time.Time) (data []byte, expired bool) {
	if len(framed) < deadlineFrameSize {
		return nil, true
	}
	deadline := int64(binary.BigEndian.Uint64(framed))
	if deadline != 0 && now.UnixNano() > deadline {
		return nil, true
	}
	return framed[deadlineFrameSize:], false
}
