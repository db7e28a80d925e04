package db

import (
	"context"
	"time"
)

// Store is the key-value facade over the dictionary database. Consumers use
// the narrow sub-interfaces.
type Store interface {
	Pinger
	HashStore
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash read operations. The search service never writes
// dictionary rows; the administration service that owns dictionary CRUD does.
type HashStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// KVStore provides simple key-value operations. The only write path is the
// embedding cache, which always sets an expiry.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
