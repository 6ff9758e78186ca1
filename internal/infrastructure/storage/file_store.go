// Package storage provides the durable key-value backends behind the persistence
// adapter: a directory of JSON files, a SQLite table, and an in-memory map.
package storage

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/ports"
)

const fileSuffix = ".json"

// FileStore keeps one file per namespace under a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a store rooted at dir. The directory is created lazily on
// the first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Get implements ports.KeyValueStore.
func (f *FileStore) Get(namespace string) ([]byte, bool, error) {
	if namespace == "" {
		return nil, false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.pathFor(namespace))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set implements ports.KeyValueStore. Writes go to a temp file first and are
// renamed into place so a crash never leaves a torn value behind.
func (f *FileStore) Set(namespace string, value []byte) error {
	if namespace == "" {
		return errors.New("storage: empty namespace")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(f.dir, domain.DirectoryPermissions); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.pathFor(namespace))
}

// Remove implements ports.KeyValueStore. Removing a missing namespace is a no-op.
func (f *FileStore) Remove(namespace string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.pathFor(namespace)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Namespaces lists stored namespaces starting with prefix, sorted.
func (f *FileStore) Namespaces(prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	files, err := os.ReadDir(f.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), fileSuffix) {
			continue
		}
		name, err := url.PathUnescape(strings.TrimSuffix(file.Name(), fileSuffix))
		if err != nil {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Dir exposes the backing directory.
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) pathFor(namespace string) string {
	return filepath.Join(f.dir, url.PathEscape(namespace)+fileSuffix)
}

var _ ports.KeyValueStore = (*FileStore)(nil)
