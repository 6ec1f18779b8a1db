// Package store provides the key/value record storage the governance engine
// persists its state into. Keys are short binary strings (a prefix byte plus
// raw address bytes); values are fixed-layout encoded records.
package store

// Store is the minimal KV surface every backend implements.
type Store interface {
	// Set writes or replaces the value under key.
	Set(key string, value []byte) error
	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool, error)
	// Delete removes the key; deleting a missing key is not an error.
	Delete(key string) error
}
