package storage

import "context"

// Adapter is the minimal persistence surface the store writes through.
// Keys name whole entity collections; values are opaque byte payloads.
// Implementations must be swappable at runtime and must surface their
// own errors unchanged — the store performs no retries or recovery.
type Adapter interface {
	// Read returns the value stored under key. The second return is
	// false when the key has never been written, in which case the
	// caller falls back to an empty collection.
	Read(ctx context.Context, key string) ([]byte, bool, error)

	// Write stores value under key, replacing any previous value.
	Write(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
