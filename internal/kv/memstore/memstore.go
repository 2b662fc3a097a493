package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/notehq/notehub/internal/kv"
)

// Store is an in-process kv.Store. It backs tests and the memory backend in dev.
type Store struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func New() *Store {
	return &Store{
		m: make(map[string][]byte),
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()

	if !ok {
		return nil, kv.ErrKeyNotFound
	}

	// copy so callers cannot mutate the stored slice
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)

	s.mu.Lock()
	s.m[key] = cp
	s.mu.Unlock()

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	_, ok := s.m[key]
	delete(s.m, key)
	s.mu.Unlock()

	if !ok {
		return kv.ErrKeyNotFound
	}

	return nil
}

func (s *Store) Scan(ctx context.Context, prefix string) ([]kv.Entry, error) {
	s.mu.RLock()

	entries := make([]kv.Entry, 0)

	for k, v := range s.m {
		if strings.HasPrefix(k, prefix) {
			cp := make([]byte, len(v))
			copy(cp, v)

			entries = append(entries, kv.Entry{Key: k, Value: cp})
		}
	}
	s.mu.RUnlock()

	// map iteration order is random; stable output keeps callers simple
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return entries, nil
}
