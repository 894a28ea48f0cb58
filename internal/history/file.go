package history

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// FileStore keeps posted entries in a JSON file. This is the state the
// scheduler commits back between runs.
type FileStore struct {
	filePath string
	ttl      time.Duration
	items    map[string]Entry
	mu       sync.RWMutex
}

func NewFileStore(filePath string, ttlHours int) *FileStore {
	return &FileStore{
		filePath: filePath,
		ttl:      time.Duration(ttlHours) * time.Hour,
		items:    make(map[string]Entry),
	}
}

// Load reads the history file, dropping entries older than the
// retention window. A missing file means an empty history.
func (fs *FileStore) Load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read history file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to unmarshal history: %w", err)
	}

	cutoff := time.Now().Add(-fs.ttl)
	for _, e := range entries {
		if e.PostedAt.After(cutoff) {
			fs.items[e.Hash] = e
		}
	}
	return nil
}

func (fs *FileStore) Contains(hash string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	e, exists := fs.items[hash]
	if !exists {
		return false
	}
	return e.PostedAt.After(time.Now().Add(-fs.ttl))
}

func (fs *FileStore) MarkPosted(hash, title, link, source string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.items[hash] = Entry{
		Hash:     hash,
		Title:    title,
		Link:     link,
		Source:   source,
		PostedAt: time.Now(),
	}
	return nil
}

// Flush writes the surviving entries back to disk.
func (fs *FileStore) Flush() error {
	fs.mu.RLock()
	cutoff := time.Now().Add(-fs.ttl)
	entries := make([]Entry, 0, len(fs.items))
	for _, e := range fs.items {
		if e.PostedAt.After(cutoff) {
			entries = append(entries, e)
		}
	}
	fs.mu.RUnlock()

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.WriteFile(fs.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

func (fs *FileStore) Close() error {
	return nil
}

// Len reports how many entries are currently held in memory.
func (fs *FileStore) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.items)
}
