package kvs

import (
	"sync"

	params "github.com/goliatone/go-params"
)

// SyncStore guards a params.Store with a read-write mutex.
type SyncStore struct {
	mu    sync.RWMutex
	inner params.Store
}

// Synchronized wraps store for shared use. Parameters are stateless, so this
// is the only locking a concurrent caller needs.
func Synchronized(store params.Store) *SyncStore {
	if store == nil {
		panic("kvs: synchronized nil store")
	}
	return &SyncStore{inner: store}
}

func (s *SyncStore) Get(key string, fallback any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Get(key, fallback)
}

func (s *SyncStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Set(key, value)
}

func (s *SyncStore) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Delete(key)
}

func (s *SyncStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Has(key)
}

func (s *SyncStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Len()
}

// Update runs fn with exclusive access to the wrapped store, for compound
// read-modify-write sequences.
func (s *SyncStore) Update(fn func(params.Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.inner)
}
