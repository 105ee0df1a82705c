// Package kvs provides the flat key-value store parameters read from and
// write to, plus file persistence and layered scopes.
//
// A Store is a snapshot of primitive keys to primitive values. It is meant for
// serialization, transport and logging; rich values are produced on demand by
// params.Parameter, never held here.
package kvs
