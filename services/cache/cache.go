package cache

import "time"

// CacheService defines the contract for the rate-limit block store.
// It is a transport cool-off mechanism, not a data cache: announcement
// results are never cached across runs.
type CacheService interface {
	// Get retrieves a value by key
	Get(key string) ([]byte, error)

	// Set stores a value with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value by key
	Delete(key string) error
}
