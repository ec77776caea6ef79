package storage

import "fmt"

// Open returns the provider for backend. path is a directory for the file
// backend and a database file for SQLite.
func Open(backend, path string) (Provider, error) {
	switch backend {
	case BackendFS, "":
		return NewFS(path)
	case BackendSQLite:
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("storage: unknown backend %q", backend)
}
