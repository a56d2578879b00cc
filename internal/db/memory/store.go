package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/kailas-cloud/papyrus/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store is a process-local db.Store. Contents are lost on restart.
type Store struct {
	mu     sync.RWMutex
	hashes map[string]map[string]string
	lists  map[string][]string
	closed bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		hashes: make(map[string]map[string]string),
		lists:  make(map[string][]string),
	}
}

// Ping fails only after Close.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return &db.Error{Op: db.OpPing, Err: db.ErrClosed}
	}
	return nil
}

// Close marks the store closed; subsequent calls fail with db.ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// WaitForReady returns immediately; an in-memory store is always ready until closed.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// HSet sets hash fields.
func (s *Store) HSet(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpHSet, Err: db.ErrClosed}
	}
	s.hset(key, fields)
	return nil
}

// HCreate writes fields unless key already holds the guard field.
func (s *Store) HCreate(_ context.Context, key, guard string, fields map[string]string) (bool, error) {
	if _, ok := fields[guard]; !ok {
		return false, &db.Error{Op: db.OpHSetNX, Err: fmt.Errorf("guard field %q missing", guard)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, &db.Error{Op: db.OpHSetNX, Err: db.ErrClosed}
	}
	if _, taken := s.hashes[key][guard]; taken {
		return false, nil
	}
	s.hset(key, fields)
	return true, nil
}

// HSetMulti stores multiple hashes atomically.
func (s *Store) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpHSet, Err: db.ErrClosed}
	}
	for _, item := range items {
		s.hset(item.Key, item.Fields)
	}
	return nil
}

func (s *Store) hset(key string, fields map[string]string) {
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string, len(fields))
		s.hashes[key] = h
	}
	maps.Copy(h, fields)
}

// HGetAll returns a copy of all fields of a hash.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpHGetAll, Err: db.ErrClosed}
	}
	return s.hgetall(key), nil
}

// HGetAllMulti returns copies of several hashes, in key order.
func (s *Store) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpHGetAll, Err: db.ErrClosed}
	}
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		out[i] = s.hgetall(key)
	}
	return out, nil
}

func (s *Store) hgetall(key string) map[string]string {
	h := s.hashes[key]
	if h == nil {
		return map[string]string{}
	}
	return maps.Clone(h)
}

// Del deletes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpDel, Err: db.ErrClosed}
	}
	delete(s.hashes, key)
	delete(s.lists, key)
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, &db.Error{Op: db.OpExists, Err: db.ErrClosed}
	}
	_, isHash := s.hashes[key]
	_, isList := s.lists[key]
	return isHash || isList, nil
}

// RPush appends values to the tail of a list.
func (s *Store) RPush(_ context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpRPush, Err: db.ErrClosed}
	}
	s.lists[key] = append(s.lists[key], values...)
	return nil
}

// LRange returns a copy of every element of a list.
func (s *Store) LRange(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpLRange, Err: db.ErrClosed}
	}
	vals := slices.Clone(s.lists[key])
	if vals == nil {
		vals = []string{}
	}
	return vals, nil
}
