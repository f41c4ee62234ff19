package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store is a byte cache for rendered responses.
type Store interface {
	// Get reports a miss as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Invalidate(ctx context.Context, inv Invalidation) error
	Close() error
}

// matches reports whether key is k or one of its query variants, or, when
// tree is set, any descendant of k.
func matches(key string, k Key, tree bool) bool {
	s := string(k)
	if key == s || strings.HasPrefix(key, s+"?") {
		return true
	}
	return tree && strings.HasPrefix(key, s+":")
}

// Noop caches nothing.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte) error         { return nil }
func (Noop) Invalidate(context.Context, Invalidation) error    { return nil }
func (Noop) Close() error                                      { return nil }

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process cache with a fixed TTL.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

func NewMemory(ttl time.Duration, now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{ttl: ttl, now: now, entries: make(map[string]entry)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Invalidate(_ context.Context, inv Invalidation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		for _, k := range inv.Keys {
			if matches(key, k, false) {
				delete(m.entries, key)
			}
		}
		for _, k := range inv.Trees {
			if matches(key, k, true) {
				delete(m.entries, key)
			}
		}
	}
	return nil
}

func (m *Memory) Close() error { return nil }
