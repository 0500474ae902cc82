package storage

import "errors"

// Common storage errors
var (
	// ErrKeyNotFound indicates that the key does not exist in the store
	ErrKeyNotFound = errors.New("key not found")
)
