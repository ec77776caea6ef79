// Package storage provides the key-value slots used to persist the session
// between runs.
package storage

// Provider is a small key-value store. A missing key is reported as
// apperr.ErrNotFound.
type Provider interface {
	// Get returns the value stored under key.
	Get(key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
)
