package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// indexEntry records where a note lives on disk.
type indexEntry struct {
	ID           int64     `json:"id"`
	File         string    `json:"file"` // relative to the store root
	LastModified time.Time `json:"lastModified"`
}

// index represents the persistent cache state.
type index struct {
	Version int                   `json:"version"`
	NextID  int64                 `json:"nextId"`
	Entries map[int64]*indexEntry `json:"entries"`
	dirty   bool
	stale   bool
	mu      sync.RWMutex
}

// cache manages the loading, updating, and saving of the index.
type cache struct {
	Path  string // Path to .notebook/index.json
	index *index
}

func newCache(storePath, systemDir string) *cache {
	return &cache{
		Path:  filepath.Join(storePath, systemDir, "index.json"),
		index: freshIndex(),
	}
}

func freshIndex() *index {
	return &index{
		Version: 1,
		NextID:  1,
		Entries: make(map[int64]*indexEntry),
		stale:   true,
	}
}

// Load reads the index from disk. A missing or corrupted index starts fresh
// and is rebuilt by the next reconcile.
func (c *cache) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	var loaded struct {
		Version int                   `json:"version"`
		NextID  int64                 `json:"nextId"`
		Entries map[int64]*indexEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &loaded); err != nil || loaded.Entries == nil {
		c.index.Entries = make(map[int64]*indexEntry)
		c.index.stale = true
		return nil
	}

	c.index.Version = loaded.Version
	c.index.NextID = max(loaded.NextID, 1)
	c.index.Entries = loaded.Entries
	c.index.dirty = false
	return nil
}

// Save persists the index if it is dirty.
func (c *cache) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}
	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()
	return nil
}

// Get returns the entry for id.
func (c *cache) Get(id int64) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	entry, ok := c.index.Entries[id]
	return entry, ok
}

// Set updates an entry and keeps NextID ahead of every known id.
func (c *cache) Set(entry *indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	c.index.Entries[entry.ID] = entry
	if entry.ID >= c.index.NextID {
		c.index.NextID = entry.ID + 1
	}
	c.index.dirty = true
}

// Delete removes a single entry.
func (c *cache) Delete(id int64) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	delete(c.index.Entries, id)
	c.index.dirty = true
}

// Reserve hands out the next free id.
func (c *cache) Reserve() int64 {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	id := c.index.NextID
	c.index.NextID++
	c.index.dirty = true
	return id
}

// Replace swaps the entries after a full scan. NextID never moves backwards
// so ids of deleted notes are not handed out again.
func (c *cache) Replace(entries map[int64]*indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	c.index.Entries = entries
	for id := range entries {
		if id >= c.index.NextID {
			c.index.NextID = id + 1
		}
	}
	c.index.dirty = true
	c.index.stale = false
}

// MarkStale forces a reconcile before the next lookup.
func (c *cache) MarkStale() {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	c.index.stale = true
}

// Stale reports whether the index may be out of date.
func (c *cache) Stale() bool {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return c.index.stale
}

// NextID returns the id the next Reserve will hand out.
func (c *cache) NextID() int64 {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return c.index.NextID
}

// Len returns the number of entries.
func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}
