package repository

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. A positive quota caps the total
// size of keys plus values, the way browser storage does.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	quota int
	used  int
}

// NewMemoryStore returns an empty store. quota <= 0 disables the cap.
func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}, quota: quota}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used
	if old, ok := s.data[key]; ok {
		used -= len(key) + len(old)
	}
	used += len(key) + len(value)
	if s.quota > 0 && used > s.quota {
		return ErrQuotaExceeded
	}

	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	s.used = used
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.data[key]; ok {
		s.used -= len(key) + len(old)
		delete(s.data, key)
	}
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }
