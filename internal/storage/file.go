package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/kimhsiao/promptvault/internal/logging"
)

// File is a Backend that stores each key as <dataDir>/<key>.json. Writes go
// through a temp file and rename so a crashed write never leaves a
// half-written blob behind.
type File struct {
	dataDir string
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFile creates a file backend rooted at dataDir, creating the directory
// if needed.
func NewFile(dataDir string) (*File, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &File{dataDir: dataDir}, nil
}

// DataDir returns the backing directory path.
func (f *File) DataDir() string {
	return f.dataDir
}

func (f *File) path(key string) string {
	return filepath.Join(f.dataDir, key+".json")
}

// Get returns the blob stored under key.
func (f *File) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set stores the blob under key.
func (f *File) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Remove deletes the blob stored under key.
func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Watch starts a file system watcher on the data directory and invokes
// onChange with the storage key whenever one of the known blob files is
// written or removed, including by another process. Self-initiated writes
// also fire; refreshing on them is harmless because loads are idempotent.
func (f *File) Watch(onChange func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(f.dataDir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch data directory: %w", err)
	}

	f.watcher = watcher
	f.done = make(chan struct{})

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}
				key := strings.TrimSuffix(filepath.Base(event.Name), ".json")
				if !knownKey(key) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					onChange(key)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn("file watcher error", map[string]interface{}{"error": err.Error()})
			case <-f.done:
				return
			}
		}
	}()

	return nil
}

// Close stops the watcher if one is running.
func (f *File) Close() error {
	if f.done != nil {
		close(f.done)
		f.done = nil
	}
	if f.watcher != nil {
		err := f.watcher.Close()
		f.watcher = nil
		return err
	}
	return nil
}

func knownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}
