package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

// Memory is an in-process Service used in tests and as the fallback when no
// Redis address is configured. Expiry is checked lazily on access.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.data, true
}

func (m *Memory) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	data, ok := m.get(key)
	if !ok {
		return false, nil
	}
	if !decode(data, dest) {
		_ = m.Remove(context.Background(), key)
		return false, nil
	}
	return true, nil
}

func (m *Memory) SetJSON(_ context.Context, key string, v any, ttl time.Duration) error {
	data, err := encode(v)
	if err != nil {
		return err
	}
	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return TTLMissing, nil
	}
	if e.expiresAt.IsZero() {
		return TTLNoExpiry, nil
	}
	left := e.expiresAt.Sub(m.now())
	if left <= 0 {
		delete(m.entries, key)
		return TTLMissing, nil
	}
	return left, nil
}

func (m *Memory) Close() error {
	return nil
}

// setRaw stores pre-encoded bytes, bypassing JSON encoding. Test hook for
// simulating corrupted entries.
func (m *Memory) setRaw(key string, data []byte) {
	m.mu.Lock()
	m.entries[key] = memoryEntry{data: data}
	m.mu.Unlock()
}
