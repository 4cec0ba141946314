package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is a minimal expiring key-value store. The in-memory implementation
// below is process-local; a shared backend (Redis or similar) can replace it
// without changing call sites.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Incr bumps a windowed counter, creating it with the given TTL on first
	// use, and returns the new count plus the window expiry.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, time.Time, error)
	Expire(ctx context.Context, key string) error
}

type entry struct {
	value   string
	count   int64
	expires time.Time
}

type Memory struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]*entry{}}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || time.Now().After(e.expires) {
		delete(m.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = &entry{value: value, expires: time.Now().Add(ttl)}
	m.sweepLocked()
	return nil
}

func (m *Memory) Incr(ctx context.Context, key string, ttl time.Duration) (int64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	e, ok := m.entries[key]
	if !ok || now.After(e.expires) {
		e = &entry{expires: now.Add(ttl)}
		m.entries[key] = e
	}
	e.count++
	return e.count, e.expires, nil
}

func (m *Memory) Expire(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// sweepLocked drops expired entries opportunistically so the map does not
// grow without bound under key churn.
func (m *Memory) sweepLocked() {
	if len(m.entries) < 4096 {
		return
	}
	now := time.Now()
	for key, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, key)
		}
	}
}
