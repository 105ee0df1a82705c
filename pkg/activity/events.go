package activity

import (
	"context"
	"reflect"
)

// StoredEvent describes a value dumped into source under key.
func StoredEvent(source any, key string, value any) Event {
	return Event{Verb: VerbStored, Key: key, Value: value, Source: source}
}

// ResetEvent describes the removal of key from source.
func ResetEvent(source any, key string) Event {
	return Event{Verb: VerbReset, Key: key, Reset: true, Source: source}
}

// LoadedEvent describes a value read from a file for key. merge reports whether
// the value was written into source or only reported.
func LoadedEvent(source any, key string, value any, merge bool) Event {
	return Event{Verb: VerbLoaded, Key: key, Value: value, Merge: merge, Source: source}
}

// ClearedEvent describes key being dropped by a wholesale clear of source.
func ClearedEvent(source any, key string) Event {
	return Event{Verb: VerbCleared, Key: key, Reset: true, Source: source}
}

// ForKey returns a hook that forwards only events for key.
func ForKey(key string, hook ActivityHook) ActivityHook {
	return filterHook{match: func(e Event) bool { return e.Key == key }, next: hook}
}

// ForSource returns a hook that forwards only events emitted by source.
// Sources are compared by identity, so pass the same store instance.
func ForSource(source any, hook ActivityHook) ActivityHook {
	return filterHook{match: func(e Event) bool { return sameSource(e.Source, source) }, next: hook}
}

type filterHook struct {
	match func(Event) bool
	next  ActivityHook
}

func (f filterHook) Notify(ctx context.Context, event Event) error {
	if f.next == nil || !f.match(event) {
		return nil
	}
	return f.next.Notify(ctx, event)
}

func sameSource(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if !va.Type().Comparable() {
		return false
	}
	return a == b
}
