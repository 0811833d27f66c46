// Package loader reads hltext configuration sources.
//
// Engine options come from TOML files and HLTEXT_ environment variables and
// are returned as nested maps. Settings documents holding highlight rules
// are YAML or JSON and are returned as yaml.Node trees so that key order,
// which decides rule precedence, survives loading.
package loader

import (
	"io/fs"
	"os"
	"sync"
)

// Loader produces one layer of engine options.
// A source that does not exist yields nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem is the file access used by loaders and the settings store.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

// OSFS is the operating system's file system.
type OSFS struct{}

// ReadFile implements FileSystem.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile implements FileSystem. New files are created with mode 0644.
func (OSFS) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// MapFS is an in-memory FileSystem keyed by path.
type MapFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMapFS creates an empty in-memory file system.
func NewMapFS() *MapFS {
	return &MapFS{files: make(map[string][]byte)}
}

// ReadFile implements FileSystem.
func (m *MapFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// WriteFile implements FileSystem.
func (m *MapFS) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
	return nil
}
