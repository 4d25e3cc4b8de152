// Package cache stores rendered reports keyed by dataset version and date
// range.
package cache

import (
	"context"
	"sync"
	"time"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

const (
	sweepInterval     = time.Minute
	defaultMaxEntries = 256
)

// Memory is an in-process Store. Expired entries are dropped on read and by a
// periodic sweep on write. Once maxEntries is reached the entry closest to
// expiry is evicted.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	lastSweep  time.Time
	now        func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries:    make(map[string]entry),
		maxEntries: defaultMaxEntries,
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value under key. A non-positive ttl never expires.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := m.now()
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweep(now)
	}
	if _, ok := m.entries[key]; !ok && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.sweep(now)
		if len(m.entries) >= m.maxEntries {
			m.evictOne()
		}
	}
	m.entries[key] = e
	return nil
}

// sweep drops every expired entry. Callers hold m.mu.
func (m *Memory) sweep(now time.Time) {
	for key, e := range m.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(m.entries, key)
		}
	}
	m.lastSweep = now
}

// evictOne removes the entry that expires first; entries without a ttl go
// last. Callers hold m.mu.
func (m *Memory) evictOne() {
	var (
		victim string
		best   time.Time
		found  bool
	)
	for key, e := range m.entries {
		switch {
		case !found:
		case e.expiresAt.IsZero():
			continue
		case !best.IsZero() && !e.expiresAt.Before(best):
			continue
		}
		victim, best, found = key, e.expiresAt, true
	}
	if found {
		delete(m.entries, victim)
	}
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
	return nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Close() error                                             { return nil }
