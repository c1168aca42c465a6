package cache

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	fields  map[string]string
	expires time.Time
}

// MemoryStore is an in-process Store used when Redis is not configured.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]*memEntry
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]*memEntry), now: time.Now}
}

func (m *MemoryStore) HGet(_ context.Context, hash, field string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[hash]
	if !ok {
		return "", ErrMiss
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.data, hash)
		return "", ErrMiss
	}
	v, ok := e.fields[field]
	if !ok {
		return "", ErrMiss
	}
	return v, nil
}

func (m *MemoryStore) HSet(_ context.Context, hash, field, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.data[hash]
	if !ok || (!e.expires.IsZero() && now.After(e.expires)) {
		e = &memEntry{fields: make(map[string]string)}
		m.data[hash] = e
	}
	e.fields[field] = value
	// expiry belongs to the hash, matching Redis EXPIRE NX
	if ttl > 0 && e.expires.IsZero() {
		e.expires = now.Add(ttl)
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, hash)
	return nil
}
