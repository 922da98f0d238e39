package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Service is the single cache abstraction used across the bot. Values are
// JSON-serialized on write and decoded on read; TTL-based expiry is owned by
// the backing store.
type Service interface {
	// GetJSON decodes the value at key into dest. It returns false on a
	// miss. A corrupted stored value counts as a miss, never an error;
	// the caller refetches from the source of truth.
	GetJSON(ctx context.Context, key string, dest any) (bool, error)

	// SetJSON stores v at key with the given TTL, replacing any prior
	// value. ttl <= 0 stores without expiry.
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// TTL returns the remaining lifetime of key, or -1 when the key has
	// no expiry, or -2 when the key does not exist.
	TTL(ctx context.Context, key string) (time.Duration, error)

	Close() error
}

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return data, nil
}

// decode unmarshals stored bytes. A decode failure means the entry is
// corrupted and must be treated as a miss; the caller deletes the key.
func decode(data []byte, dest any) bool {
	return json.Unmarshal(data, dest) == nil
}

const (
	// TTLMissing mirrors the Redis convention for TTL on an absent key.
	TTLMissing = -2 * time.Second
	// TTLNoExpiry mirrors the Redis convention for a key without expiry.
	TTLNoExpiry = -1 * time.Second
)
