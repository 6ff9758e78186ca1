package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/ports"
)

// Open builds the backend named in settings. A SQLite database that cannot be
// opened degrades to a FileStore in the same directory; the returned error is then
// informational and the store is still usable.
func Open(settings domain.StorageSettings) (ports.KeyValueStore, error) {
	switch strings.ToLower(settings.Backend) {
	case "", domain.StorageBackendFile:
		return NewFileStore(filepath.Join(settings.Dir, "store")), nil
	case domain.StorageBackendMemory:
		return NewMemoryStore(), nil
	case domain.StorageBackendSQLite:
		store, err := NewSQLiteStore(filepath.Join(settings.Dir, "jua.db"))
		if err != nil {
			return NewFileStore(filepath.Join(settings.Dir, "store")), fmt.Errorf("open sqlite store, using files: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", settings.Backend)
	}
}
