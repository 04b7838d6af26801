package repository

import (
	"context"
	"errors"
)

// ErrCacheMiss the store has no record for the key
var ErrCacheMiss = errors.New("cache miss")

// CacheStore key-value backing store for search results
type CacheStore interface {
	// Get returns the raw record, ErrCacheMiss if absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Put overwrites the record for key
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the record. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a record is stored for key
	Exists(ctx context.Context, key string) (bool, error)
}
