package repository

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by KVStore.Get for an absent key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrQuotaExceeded is returned by KVStore.Set when the backend is full.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// KVStore is a flat key-value mapping. Values are opaque bytes.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by stores that can report backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
