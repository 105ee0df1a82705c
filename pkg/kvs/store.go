package kvs

import (
	"context"
	"sort"

	params "github.com/goliatone/go-params"
	"github.com/goliatone/go-params/pkg/activity"
)

// Store is a map-backed params.Store that signals bulk changes made by Load
// and Clear. It is not safe for concurrent mutation; wrap it with Synchronized
// when sharing.
type Store struct {
	entries map[string]any
	hooks   activity.Hooks
	logger  params.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithHooks sets the listeners notified by Load and Clear.
func WithHooks(hooks activity.Hooks) StoreOption {
	return func(s *Store) {
		s.hooks = hooks.Clone()
	}
}

// WithLogger reports listener failures.
func WithLogger(logger params.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEntries seeds the store. The map is copied.
func WithEntries(entries map[string]any) StoreOption {
	return func(s *Store) {
		for key, value := range entries {
			s.entries[key] = value
		}
	}
}

// New builds an empty store.
func New(opts ...StoreOption) *Store {
	s := &Store{
		entries: map[string]any{},
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) Get(key string, fallback any) any {
	if value, ok := s.entries[key]; ok {
		return value
	}
	return fallback
}

func (s *Store) Set(key string, value any) {
	s.entries[key] = value
}

func (s *Store) Delete(key string) bool {
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

func (s *Store) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

func (s *Store) Len() int {
	return len(s.entries)
}

// Keys returns the stored keys sorted.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a shallow copy of the entries.
func (s *Store) Snapshot() map[string]any {
	out := make(map[string]any, len(s.entries))
	for key, value := range s.entries {
		out[key] = value
	}
	return out
}

// Clear removes every entry and emits a kvs.cleared event per removed key,
// unless Silent is passed.
func (s *Store) Clear(opts ...LoadOption) {
	cfg := applyLoadOptions(opts)
	prior := s.Keys()
	s.entries = map[string]any{}
	if cfg.silent {
		return
	}
	for _, key := range prior {
		s.emit(cfg.ctx, activity.ClearedEvent(s, key))
	}
}

func (s *Store) emit(ctx context.Context, event activity.Event) {
	if !s.hooks.Enabled() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.hooks.Notify(ctx, event); err != nil {
		s.logger.Warn("kvs: change listener failed", "key", event.Key, "verb", event.Verb, "err", err)
	}
}

type nopLogger struct{}

func (nopLogger) Debug(any, ...any) {}
func (nopLogger) Warn(any, ...any)  {}

var _ params.Store = (*Store)(nil)
