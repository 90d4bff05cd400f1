// Package cache stores formatted output keyed by input content and options.
//
// Three backends are provided:
//   - FileCache stores entries on disk for repeated CLI runs
//   - RedisCache shares entries between server instances
//   - NullCache stores nothing
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache is the interface implemented by cache backends.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// KeyPrefix namespaces formatter entries.
const KeyPrefix = "format"

// Key derives the cache key for formatting content with the given options.
// The options value must marshal to JSON deterministically.
func Key(content []byte, options any) string {
	opts, _ := json.Marshal(options)
	h := sha256.New()
	h.Write(opts)
	h.Write([]byte{0})
	h.Write(content)
	return KeyPrefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
