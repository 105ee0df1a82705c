package params

// Store is the key-value contract parameters read from and write to. Values
// are expected to stay within a primitive, serialisable domain (numbers,
// strings, booleans, nil and nested maps/slices of those).
//
// Implementations need not be safe for concurrent mutation; callers that share
// a store across goroutines must serialise access themselves.
type Store interface {
	// Get returns the value stored under key, or fallback when absent.
	Get(key string, fallback any) any
	// Set inserts or replaces the value under key.
	Set(key string, value any)
	// Delete removes key and reports whether an entry existed. Removing a
	// missing key is not an error.
	Delete(key string) bool
	Has(key string) bool
	Len() int
}

// MapStore adapts a plain map to Store. The zero value is not usable for
// writes; use make(MapStore).
type MapStore map[string]any

func (m MapStore) Get(key string, fallback any) any {
	if value, ok := m[key]; ok {
		return value
	}
	return fallback
}

func (m MapStore) Set(key string, value any) {
	m[key] = value
}

func (m MapStore) Delete(key string) bool {
	if _, ok := m[key]; !ok {
		return false
	}
	delete(m, key)
	return true
}

func (m MapStore) Has(key string) bool {
	_, ok := m[key]
	return ok
}

func (m MapStore) Len() int {
	return len(m)
}
