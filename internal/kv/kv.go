// internal/kv/kv.go
//
// Opaque string-keyed persistence for the EQLE engine.
// The engine treats storage as a get/set/remove service; implementations
// may be backed by memory (testing), SQLite, or BadgerDB.

package kv

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get for missing keys.
var ErrNotFound = errors.New("key not found")

// Store is the persistence interface the engine reads from and writes to
// to survive restarts.
type Store interface {
	// Get retrieves the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// SetMany stores every pair atomically: either all writes become
	// visible or none do.
	SetMany(ctx context.Context, pairs map[string]string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases underlying resources.
	Close() error
}

// Namespaced wraps a Store so every key is prefixed with "ns/". Used to
// give each player an isolated keyspace on a shared backend.
func Namespaced(s Store, ns string) Store {
	return &namespaced{inner: s, prefix: strings.TrimSuffix(ns, "/") + "/"}
}

type namespaced struct {
	inner  Store
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) SetMany(ctx context.Context, pairs map[string]string) error {
	prefixed := make(map[string]string, len(pairs))
	for k, v := range pairs {
		prefixed[n.prefix+k] = v
	}
	return n.inner.SetMany(ctx, prefixed)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

// Close is a no-op: the wrapped store owns the underlying resources.
func (n *namespaced) Close() error { return nil }
