package params

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	// ErrFunctionName rejects names that cannot be called from a rule or that
	// would shadow a rule binding.
	ErrFunctionName = errors.New("params: invalid rule function name")
	// ErrFunctionExists rejects a second function under the same name.
	ErrFunctionExists = errors.New("params: rule function already registered")
	// ErrFunctionNotFound is returned when a rule calls an unknown function.
	ErrFunctionNotFound = errors.New("params: rule function not registered")
)

// ruleBindings are the names every rule context binds.
var ruleBindings = map[string]struct{}{
	"value":    {},
	"key":      {},
	"now":      {},
	"args":     {},
	"metadata": {},
	"call":     {},
}

var functionSetGeneration atomic.Uint64

// Function is a helper validation rules may call, for example to check a
// candidate against a list held outside the expression.
type Function func(args ...any) (any, error)

// FunctionRegistry holds the functions visible to validation rules. Names are
// case-insensitive identifiers.
//
// Each distinct function set gets its own generation; engines include it in
// program cache keys so a shared cache never serves a program compiled
// against other functions.
type FunctionRegistry struct {
	mu         sync.RWMutex
	functions  map[string]Function
	generation uint64
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions:  make(map[string]Function),
		generation: functionSetGeneration.Add(1),
	}
}

// Register adds fn under name. The name must be an identifier and may not be
// one of value, key, now, args, metadata or call.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if !isIdentifier(key) {
		return fmt.Errorf("%w: %q", ErrFunctionName, name)
	}
	if _, bound := ruleBindings[key]; bound {
		return fmt.Errorf("%w: %q is bound in every rule", ErrFunctionName, name)
	}
	if fn == nil {
		return fmt.Errorf("params: rule function %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("%w: %q", ErrFunctionExists, name)
	}
	r.functions[key] = fn
	r.generation = functionSetGeneration.Add(1)
	return nil
}

// Clone copies the registry. The copy shares the generation until either
// side registers another function.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	functions := make(map[string]Function, len(r.functions))
	for name, fn := range r.functions {
		functions[name] = fn
	}
	return &FunctionRegistry{functions: functions, generation: r.generation}
}

// Call runs the function registered as name. Failures are prefixed with the
// function name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	key := strings.ToLower(name)
	var fn Function
	if r != nil {
		r.mu.RLock()
		fn = r.functions[key]
		r.mu.RUnlock()
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
	}
	out, err := fn(args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return out, nil
}

// Names returns the registered names in lower case, sorted.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *FunctionRegistry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.functions)
}

// fingerprint identifies the function set; empty when there are no functions.
func (r *FunctionRegistry) fingerprint() string {
	if r == nil {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.functions) == 0 {
		return ""
	}
	return strconv.FormatUint(r.generation, 36)
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
