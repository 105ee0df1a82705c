package params

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateKey indicates a registry already holds a parameter for a key.
var ErrDuplicateKey = errors.New("params: duplicate parameter key")

// Registry collects parameters of mixed types under unique keys.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Describer
}

// NewRegistry constructs a registry holding params.
func NewRegistry(params ...Describer) (*Registry, error) {
	r := &Registry{entries: make(map[string]Describer, len(params))}
	for _, p := range params {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds p, guarding against duplicate keys.
func (r *Registry) Register(p Describer) error {
	if p == nil {
		return fmt.Errorf("params: cannot register nil parameter")
	}
	key := p.Key()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]Describer)
	}
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	r.entries[key] = p
	return nil
}

// Lookup returns the parameter registered for key.
func (r *Registry) Lookup(key string) (Describer, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.entries[key]
	return p, ok
}

// Keys returns registered keys sorted alphabetically.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered parameters.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Describe returns descriptions ordered by key.
func (r *Registry) Describe() []Description {
	keys := r.Keys()
	out := make([]Description, 0, len(keys))
	for _, key := range keys {
		if p, ok := r.Lookup(key); ok {
			out = append(out, p.Describe())
		}
	}
	return out
}

// Values retrieves every registered parameter from store. Keys whose values
// fail are left out of the map and reported in the joined error.
func (r *Registry) Values(store Store, opts ...CallOption) (map[string]any, error) {
	keys := r.Keys()
	values := make(map[string]any, len(keys))
	var errs []error
	for _, key := range keys {
		p, ok := r.Lookup(key)
		if !ok {
			continue
		}
		value, err := p.Current(store, opts...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values[key] = value
	}
	return values, errors.Join(errs...)
}

// Check reports every registered parameter whose current value in store does
// not retrieve cleanly.
func (r *Registry) Check(store Store, opts ...CallOption) error {
	_, err := r.Values(store, opts...)
	return err
}

// ResetAll clears every registered parameter from store.
func (r *Registry) ResetAll(store Store, opts ...CallOption) {
	for _, key := range r.Keys() {
		if p, ok := r.Lookup(key); ok {
			p.Clear(store, opts...)
		}
	}
}

// Schema renders the registry's descriptions with generator, or the default
// descriptor generator when generator is nil.
func (r *Registry) Schema(generator SchemaGenerator) (SchemaDocument, error) {
	if generator == nil {
		generator = DefaultSchemaGenerator()
	}
	return generator.Generate(r.Describe())
}
