package economy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// MemoryStore keeps totals in memory. Err, when set, fails every call.
type MemoryStore struct {
	mu    sync.Mutex
	data  map[string]int64
	saves int
	Err   error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]int64)}
}

// LoadTotals implements Store.
func (m *MemoryStore) LoadTotals(_ context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[string]int64, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

// SaveTotals implements Store.
func (m *MemoryStore) SaveTotals(_ context.Context, totals map[string]int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.data = make(map[string]int64, len(totals))
	for k, v := range totals {
		m.data[k] = v
	}
	m.saves++
	return nil
}

// SetErr changes the failure injected into every call.
func (m *MemoryStore) SetErr(err error) {
	m.mu.Lock()
	m.Err = err
	m.mu.Unlock()
}

// Saves returns the number of successful saves.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Get returns a stored value.
func (m *MemoryStore) Get(key string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

// FileStore keeps totals in a small YAML file, e.g. ~/.arena/wallet.yaml.
type FileStore struct {
	path string
}

// NewFileStore returns a store for path. A leading ~ expands to the home
// directory.
func NewFileStore(path string) (*FileStore, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("economy: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return &FileStore{path: path}, nil
}

// Path returns the resolved file path.
func (f *FileStore) Path() string {
	return f.path
}

// LoadTotals implements Store. A missing file is empty, not an error.
func (f *FileStore) LoadTotals(_ context.Context) (map[string]int64, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]int64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("economy: read %s: %w", f.path, err)
	}
	totals := make(map[string]int64)
	if err := yaml.Unmarshal(data, &totals); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
	}
	return totals, nil
}

// SaveTotals implements Store. The file is replaced atomically.
func (f *FileStore) SaveTotals(_ context.Context, totals map[string]int64) error {
	data, err := yaml.Marshal(totals)
	if err != nil {
		return fmt.Errorf("economy: encode totals: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("economy: cannot create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".wallet-*.yaml")
	if err != nil {
		return fmt.Errorf("economy: temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("economy: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("economy: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("economy: replace %s: %w", f.path, err)
	}
	return nil
}
