// Package store provides the key/value storage adapters the gateway services
// persist tokens and user records through: an in-memory map, a bbolt-backed
// file store, and a redis client wrapper.
//
// Adapters are deliberately thin. The pipeline makes no cross-call ordering
// guarantees, so neither do they: two overlapping calls mutating the same key
// race exactly as their backends race.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for keys that have never been set or have
// been deleted.
var ErrNotFound = errors.New("store: key not found")

// Store is a minimal key/value contract. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set writes value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the adapter's resources. The store is unusable after.
	Close() error
}
