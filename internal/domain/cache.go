package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned by Cache.Get for absent or expired keys.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the short-lived key/value store behind draft caching and the
// generation and draft locks. A lock is a SetNX of an owner token released
// with CompareAndDelete by that owner.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	// Set overwrites key; a zero expiration keeps it forever.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error)
	// CompareAndDelete removes key only while it still holds value.
	CompareAndDelete(ctx context.Context, key string, value string) (bool, error)
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
