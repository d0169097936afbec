package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/joaopjk/moto-manager/internal/config"
)

// fakeDistributedTier records stores in a map so tests can observe whether
// an absent value was cached.
type fakeDistributedTier struct {
	mu    sync.Mutex
	store map[string][]byte
	fail  error
}

func newFakeDistributedTier() *fakeDistributedTier {
	return &fakeDistributedTier{store: make(map[string][]byte)}
}

func (f *fakeDistributedTier) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetch BytesFetch) ([]byte, error) {
	if f.fail != nil {
		return nil, f.fail
	}

	f.mu.Lock()
	data, ok := f.store[key]
	f.mu.Unlock()
	if ok {
		return data, nil
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	f.mu.Lock()
	f.store[key] = data
	f.mu.Unlock()
	return data, nil
}

func (f *fakeDistributedTier) stored(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.store[key]
	return ok
}

func newTestDegradingCache(t *testing.T, distributed DistributedTier) *DegradingCache {
	t.Helper()

	memory, err := NewMemoryTier(config.ForTesting().Memory, nil)
	if err != nil {
		t.Fatalf("NewMemoryTier failed: %v", err)
	}
	t.Cleanup(func() { memory.Close() })

	return NewDegradingCache(memory, distributed, nil, nil)
}

type planRow struct {
	Days int     `json:"days"`
	Rate float64 `json:"rate"`
}

// TestDegradingCacheGetOrSet tests the tier traversal.
func TestDegradingCacheGetOrSet(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches on a full miss and populates both tiers", func(t *testing.T) {
		distributed := newFakeDistributedTier()
		c := newTestDegradingCache(t, distributed)

		fetches := 0
		fetch := func(ctx context.Context) (any, error) {
			fetches++
			return []planRow{{Days: 7, Rate: 30}}, nil
		}

		var got []planRow
		if err := c.GetOrSet(ctx, "plans", &got, fetch, time.Minute, time.Minute); err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if fetches != 1 {
			t.Errorf("expected 1 fetch, got %d", fetches)
		}
		if len(got) != 1 || got[0].Days != 7 {
			t.Errorf("unexpected result: %+v", got)
		}
		if !distributed.stored("plans") {
			t.Error("expected distributed tier to be populated")
		}

		// Second read must come from the memory tier.
		got = nil
		if err := c.GetOrSet(ctx, "plans", &got, fetch, time.Minute, time.Minute); err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if fetches != 1 {
			t.Errorf("memory hit should not fetch, got %d fetches", fetches)
		}
		if len(got) != 1 {
			t.Errorf("unexpected result: %+v", got)
		}
	})

	t.Run("never caches an absent value", func(t *testing.T) {
		distributed := newFakeDistributedTier()
		c := newTestDegradingCache(t, distributed)

		fetches := 0
		fetch := func(ctx context.Context) (any, error) {
			fetches++
			return nil, nil
		}

		var got []planRow
		if err := c.GetOrSet(ctx, "empty", &got, fetch, time.Minute, time.Minute); err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if got != nil {
			t.Errorf("dest must stay untouched for an absent value, got %+v", got)
		}
		if distributed.stored("empty") {
			t.Error("absent value must not be stored in the distributed tier")
		}

		// The next read must consult the source again.
		if err := c.GetOrSet(ctx, "empty", &got, fetch, time.Minute, time.Minute); err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if fetches != 2 {
			t.Errorf("expected a fetch per lookup for absent values, got %d", fetches)
		}
	})

	t.Run("typed nil from fetch is treated as absent", func(t *testing.T) {
		distributed := newFakeDistributedTier()
		c := newTestDegradingCache(t, distributed)

		fetch := func(ctx context.Context) (any, error) {
			var rows []planRow
			return rows, nil
		}

		var got []planRow
		if err := c.GetOrSet(ctx, "typed-nil", &got, fetch, time.Minute, time.Minute); err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if distributed.stored("typed-nil") {
			t.Error("typed nil must not be stored")
		}
	})

	t.Run("fetch errors propagate uncached", func(t *testing.T) {
		distributed := newFakeDistributedTier()
		c := newTestDegradingCache(t, distributed)

		wantErr := errors.New("source down")
		fetch := func(ctx context.Context) (any, error) { return nil, wantErr }

		var got []planRow
		if err := c.GetOrSet(ctx, "bad", &got, fetch, time.Minute, time.Minute); !errors.Is(err, wantErr) {
			t.Errorf("expected fetch error, got: %v", err)
		}
		if distributed.stored("bad") {
			t.Error("nothing may be stored on a failed fetch")
		}
	})

	t.Run("distributed tier faults propagate", func(t *testing.T) {
		distributed := newFakeDistributedTier()
		distributed.fail = errors.New("connection refused")
		c := newTestDegradingCache(t, distributed)

		fetch := func(ctx context.Context) (any, error) {
			t.Fatal("fetch must not run when the distributed tier faults")
			return nil, nil
		}

		var got []planRow
		err := c.GetOrSet(ctx, "fault", &got, fetch, time.Minute, time.Minute)
		if !errors.Is(err, distributed.fail) {
			t.Errorf("expected distributed fault, got: %v", err)
		}
	})

	t.Run("works with the disabled distributed tier", func(t *testing.T) {
		c := newTestDegradingCache(t, NewDisabledDistributedTier())

		fetches := 0
		fetch := func(ctx context.Context) (any, error) {
			fetches++
			return []planRow{{Days: 15, Rate: 28}}, nil
		}

		var got []planRow
		if err := c.GetOrSet(ctx, "plans", &got, fetch, time.Minute, time.Minute); err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if err := c.GetOrSet(ctx, "plans", &got, fetch, time.Minute, time.Minute); err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if fetches != 1 {
			t.Errorf("second read should hit memory, got %d fetches", fetches)
		}
	})
}

// TestIsNilValue tests absent-value detection.
func TestIsNilValue(t *testing.T) {
	if !isNilValue(nil) {
		t.Error("nil must be nil")
	}
	var p *planRow
	if !isNilValue(p) {
		t.Error("typed nil pointer must be nil")
	}
	var s []planRow
	if !isNilValue(s) {
		t.Error("nil slice must be nil")
	}
	if isNilValue([]planRow{}) {
		t.Error("empty slice is a present value")
	}
	if isNilValue(0) {
		t.Error("zero int is a present value")
	}
}
