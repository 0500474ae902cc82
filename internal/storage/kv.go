package storage

import "context"

// KVStore defines the persistence boundary for the user repository.
// It is a durable mapping from string keys to JSON-encoded string values,
// exclusively owned by one logical process; no transactions and no
// multi-writer coordination are provided.
type KVStore interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}
