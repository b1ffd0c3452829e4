// Package store provides the reactive value container used to bind panel
// data to visual components. A Store wraps one value, notifies subscribers
// on every Set, and serializes to a frontend payload carrying its id.
package store

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

var nextStoreID atomic.Uint64

// Frontend is the wire shape a store takes when sent to a UI client.
type Frontend struct {
	StoreID string `json:"store_id"`
	Value   any    `json:"value"`
	IsStore bool   `json:"is_store"`
}

// Store wraps a single value and fans out changes to subscribers.
// Subscribers are invoked synchronously, in registration order, with the
// new value. The UI loop is single-threaded but tests and services are
// not, so access is guarded.
type Store[T any] struct {
	mu    sync.RWMutex
	id    string
	value T
	subs  map[uint64]func(T)
	next  uint64
}

// New creates a store holding an initial value.
func New[T any](value T) *Store[T] {
	return &Store[T]{
		id:    fmt.Sprintf("store.%d", nextStoreID.Add(1)),
		value: value,
		subs:  make(map[uint64]func(T)),
	}
}

// ID returns the opaque store identifier.
func (s *Store[T]) ID() string {
	return s.id
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies all current subscribers.
func (s *Store[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	keys := make([]uint64, 0, len(s.subs))
	for key := range s.subs {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	subs := make([]func(T), 0, len(keys))
	for _, key := range keys {
		subs = append(subs, s.subs[key])
	}
	s.mu.Unlock()

	log.Debug().Str("store_id", s.id).Int("subscribers", len(subs)).Msg("store_set")
	for _, fn := range subs {
		fn(value)
	}
}

// Subscribe registers a change callback and returns a cancel func.
// Cancel is idempotent.
func (s *Store[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	key := s.next
	s.subs[key] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, key)
	}
}

// Frontend returns the serializable frontend payload for this store.
func (s *Store[T]) Frontend() Frontend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Frontend{StoreID: s.id, Value: s.value, IsStore: true}
}
