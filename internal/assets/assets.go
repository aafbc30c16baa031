// Package assets handles creature asset lookup and caching.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when no asset directory holds the requested key.
var ErrNotFound = errors.New("asset not found")

// Manager resolves asset keys against a list of directories.
// Directories are searched in reverse order (last added = highest priority).
type Manager struct {
	dirs  []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a manager over dirs.
func NewManager(dirs ...string) *Manager {
	return &Manager{
		dirs:  append([]string(nil), dirs...),
		cache: NewCache(),
	}
}

// AddDir adds an asset directory with the highest priority.
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("asset dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset dir %s: not a directory", dir)
	}

	m.mu.Lock()
	m.dirs = append(m.dirs, dir)
	m.mu.Unlock()
	return nil
}

// Dirs returns the search directories in priority order, lowest first.
func (m *Manager) Dirs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.dirs...)
}

// Resolve returns the file path backing key.
func (m *Manager) Resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%w: %q escapes the asset directories", ErrNotFound, key)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.dirs) - 1; i >= 0; i-- {
		path := filepath.Join(m.dirs[i], clean)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, key)
}

// Load returns the raw bytes of key, from cache when possible.
func (m *Manager) Load(key string) ([]byte, error) {
	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	path, err := m.Resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m.cache.Set(key, data)
	return data, nil
}

// Has reports whether key resolves to a file.
func (m *Manager) Has(key string) bool {
	_, err := m.Resolve(key)
	return err == nil
}

// Invalidate drops key from the cache so the next Load rereads it.
func (m *Manager) Invalidate(key string) {
	m.cache.Delete(key)
}

// Cache returns the manager's byte cache.
func (m *Manager) Cache() *Cache { return m.cache }

// Close clears the cache and forgets every directory.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs = nil
	m.cache.Clear()
}

// Cache is an in-memory cache for loaded asset bytes.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes an item from cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
