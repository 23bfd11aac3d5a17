package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a KV kept in process memory. Used in tests and as the
// building block for the in-memory session fallback.
type MemoryStore struct {
	entries sync.Map
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, ok := s.entries.Load(key)
	if !ok {
		return nil, ErrNotFound
	}
	stored := val.([]byte)
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	s.entries.Store(key, stored)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

type sessionEntry struct {
	expiresAt time.Time
}

// MemorySessionStore holds session tokens with expiry in process memory.
type MemorySessionStore struct {
	sessions sync.Map
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) SetSession(ctx context.Context, token string, ttl time.Duration) error {
	s.sessions.Store(token, sessionEntry{expiresAt: time.Now().Add(ttl)})
	return nil
}

func (s *MemorySessionStore) HasSession(ctx context.Context, token string) (bool, error) {
	val, ok := s.sessions.Load(token)
	if !ok {
		return false, nil
	}
	entry := val.(sessionEntry)
	if time.Now().After(entry.expiresAt) {
		s.sessions.Delete(token)
		return false, nil
	}
	return true, nil
}

func (s *MemorySessionStore) DeleteSession(ctx context.Context, token string) error {
	s.sessions.Delete(token)
	return nil
}
