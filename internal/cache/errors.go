package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheMiss signals the key is absent (or expired) in a tier.
	ErrCacheMiss = errors.New("cache: key not found")
	// ErrClosed signals the tier has been closed.
	ErrClosed = errors.New("cache: closed")
)

// CacheError wraps a tier failure with its operation and key.
type CacheError struct {
	Op   string
	Key  string
	Tier string
	Err  error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s on %s [%s]: %v", e.Op, e.Tier, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

func newCacheError(op, key, tier string, err error) *CacheError {
	return &CacheError{Op: op, Key: key, Tier: tier, Err: err}
}

// IsCacheMiss reports whether err is a cache miss.
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}
