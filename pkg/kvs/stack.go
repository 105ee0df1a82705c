package kvs

import (
	"errors"
	"fmt"
	"sort"

	params "github.com/goliatone/go-params"
)

// Recommended priorities for common layering patterns. Higher numbers win.
const (
	ScopePrioritySystem = 100
	ScopePriorityTenant = 200
	ScopePriorityOrg    = 300
	ScopePriorityTeam   = 400
	ScopePriorityUser   = 500
)

// Scope models a named precedence bucket (system, tenant, user, etc.). Higher
// priority values represent stronger layers.
type Scope struct {
	Name     string         `json:"name"`
	Label    string         `json:"label,omitempty"`
	Priority int            `json:"priority"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ScopeOption configures metadata on Scope creation.
type ScopeOption func(*Scope)

// WithScopeLabel sets a human-friendly label on the scope.
func WithScopeLabel(label string) ScopeOption {
	return func(s *Scope) {
		s.Label = label
	}
}

// WithScopeMetadata attaches a copy of metadata to the scope.
func WithScopeMetadata(metadata map[string]any) ScopeOption {
	return func(s *Scope) {
		s.Metadata = copyMetadata(metadata)
	}
}

// NewScope builds a Scope. Validation is deferred to NewStack.
func NewScope(name string, priority int, opts ...ScopeOption) Scope {
	scope := Scope{Name: name, Priority: priority}
	for _, opt := range opts {
		if opt != nil {
			opt(&scope)
		}
	}
	return scope
}

func (s Scope) clone() Scope {
	s.Metadata = copyMetadata(s.Metadata)
	return s
}

// Layer pairs a scope with the store holding that scope's values.
type Layer struct {
	Scope Scope
	Store *Store
}

// NewLayer pairs scope with store; a nil store gets an empty one.
func NewLayer(scope Scope, store *Store) Layer {
	if store == nil {
		store = New()
	}
	return Layer{Scope: scope.clone(), Store: store}
}

var (
	// ErrScopeNameRequired indicates a missing scope name.
	ErrScopeNameRequired = errors.New("kvs: scope name must be provided")
	// ErrDuplicateScopeName indicates NewStack received two layers with the
	// same scope name.
	ErrDuplicateScopeName = errors.New("kvs: scope names must be unique")
	// ErrPriorityOrder indicates NewStack found duplicate priorities.
	ErrPriorityOrder = errors.New("kvs: scope priorities must be strictly ordered")
	// ErrScopeNotFound indicates a scope name absent from the stack.
	ErrScopeNotFound = errors.New("kvs: scope not found")
)

// Stack is a read-through params.Store over scoped layers ordered from
// strongest to weakest. Reads return the strongest layer holding a key; writes
// and deletes go to the target layer, the strongest unless Target picks
// another. Deleting from the target exposes any weaker value again.
type Stack struct {
	layers []Layer
	target int
}

// NewStack validates the layers and sorts them strongest first.
func NewStack(layers ...Layer) (*Stack, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("kvs: stack must include at least one layer")
	}
	seen := make(map[string]struct{}, len(layers))
	copied := make([]Layer, len(layers))
	for i, layer := range layers {
		if layer.Scope.Name == "" {
			return nil, ErrScopeNameRequired
		}
		if _, ok := seen[layer.Scope.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScopeName, layer.Scope.Name)
		}
		seen[layer.Scope.Name] = struct{}{}
		copied[i] = NewLayer(layer.Scope, layer.Store)
	}

	sort.Slice(copied, func(i, j int) bool {
		if copied[i].Scope.Priority == copied[j].Scope.Priority {
			return copied[i].Scope.Name < copied[j].Scope.Name
		}
		return copied[i].Scope.Priority > copied[j].Scope.Priority
	})
	for i := 1; i < len(copied); i++ {
		if copied[i-1].Scope.Priority <= copied[i].Scope.Priority {
			return nil, fmt.Errorf("%w: %d", ErrPriorityOrder, copied[i].Scope.Priority)
		}
	}
	return &Stack{layers: copied}, nil
}

// Target returns a view of the stack that writes to the named scope.
func (s *Stack) Target(name string) (*Stack, error) {
	for i, layer := range s.layers {
		if layer.Scope.Name == name {
			return &Stack{layers: s.layers, target: i}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrScopeNotFound, name)
}

// Layers returns the layers strongest first. Stores are shared, scopes copied.
func (s *Stack) Layers() []Layer {
	out := make([]Layer, len(s.layers))
	for i, layer := range s.layers {
		out[i] = Layer{Scope: layer.Scope.clone(), Store: layer.Store}
	}
	return out
}

func (s *Stack) Get(key string, fallback any) any {
	for _, layer := range s.layers {
		if layer.Store.Has(key) {
			return layer.Store.Get(key, fallback)
		}
	}
	return fallback
}

func (s *Stack) Set(key string, value any) {
	s.layers[s.target].Store.Set(key, value)
}

func (s *Stack) Delete(key string) bool {
	return s.layers[s.target].Store.Delete(key)
}

func (s *Stack) Has(key string) bool {
	for _, layer := range s.layers {
		if layer.Store.Has(key) {
			return true
		}
	}
	return false
}

// Len counts distinct keys across layers.
func (s *Stack) Len() int {
	return len(s.Keys())
}

// Keys returns the distinct keys across layers, sorted.
func (s *Stack) Keys() []string {
	seen := map[string]struct{}{}
	for _, layer := range s.layers {
		for _, key := range layer.Store.Keys() {
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Flatten resolves every key to its effective value.
func (s *Stack) Flatten() map[string]any {
	out := map[string]any{}
	for i := len(s.layers) - 1; i >= 0; i-- {
		for key, value := range s.layers[i].Store.Snapshot() {
			out[key] = value
		}
	}
	return out
}

// Trace reports, strongest first, what every layer holds for key.
func (s *Stack) Trace(key string) Trace {
	trace := Trace{Key: key, Layers: make([]Provenance, 0, len(s.layers))}
	for _, layer := range s.layers {
		value, found := layer.Store.entries[key]
		trace.Layers = append(trace.Layers, Provenance{
			Scope: layer.Scope.clone(),
			Value: value,
			Found: found,
		})
	}
	return trace
}

func copyMetadata(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}

var _ params.Store = (*Stack)(nil)
