package persistence

import (
	"context"
	"fmt"
	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
	"os"
	"path/filepath"
	"sync"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"
)

const snapshotVersion = 1

type snapshot struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// FileStore keeps every key in memory and persists the whole set as one
// zstd-compressed JSON snapshot. Writes mark the store dirty; Flush writes the
// snapshot atomically (tmp file + rename) only when something changed.
type FileStore struct {
	mu         sync.RWMutex
	saveMu     sync.Mutex
	data       map[string]string
	dirty      *atomic.Bool
	path       string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileStore(path string, compressor interfaces.CompressorInterface, logger providers.Logger) *FileStore {
	return &FileStore{
		data:       make(map[string]string),
		dirty:      atomic.NewBool(false),
		path:       path,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	f.data[key] = value
	f.mu.Unlock()
	f.dirty.Store(true)
	return nil
}

func (f *FileStore) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	_, ok := f.data[key]
	delete(f.data, key)
	f.mu.Unlock()
	if ok {
		f.dirty.Store(true)
	}
	return nil
}

func (f *FileStore) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.data)
}

// Flush writes the snapshot if there are unsaved changes. Concurrent flushes
// are serialized so they never share the tmp file.
func (f *FileStore) Flush() error {
	f.saveMu.Lock()
	defer f.saveMu.Unlock()
	if !f.dirty.CompareAndSwap(true, false) {
		return nil
	}
	if err := f.SaveToFile(f.path); err != nil {
		f.dirty.Store(true)
		return err
	}
	return nil
}

func (f *FileStore) SaveToFile(fileName string) error {
	f.mu.RLock()
	snap := snapshot{Version: snapshotVersion, Entries: make(map[string]string, len(f.data))}
	for k, v := range f.data {
		snap.Entries[k] = v
	}
	f.mu.RUnlock()

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// Restore loads the snapshot from disk. A missing file leaves the store empty.
// An unreadable snapshot is moved aside to <path>.corrupt and the store starts
// empty; the returned error reports what happened.
func (f *FileStore) Restore() error {
	err := f.LoadFromFile(f.path)
	if err == nil {
		return nil
	}
	corruptPath := f.path + ".corrupt"
	if renameErr := os.Rename(f.path, corruptPath); renameErr != nil {
		f.logger.Warnf(providers.TypeApp, "Cannot move corrupt snapshot %s aside: %s", f.path, renameErr)
	}
	return fmt.Errorf("snapshot %s unreadable, starting empty: %w", f.path, err)
}

func (f *FileStore) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snap snapshot
	if err := json.Unmarshal(decompressedData, &snap); err != nil {
		return err
	}
	if snap.Version > snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	f.mu.Lock()
	f.data = make(map[string]string, len(snap.Entries))
	for k, v := range snap.Entries {
		f.data[k] = v
	}
	f.mu.Unlock()
	f.dirty.Store(false)

	f.logger.Infof(providers.TypeApp, "Restored %d keys from %s", len(snap.Entries), fileName)
	return nil
}

func (f *FileStore) Close() error {
	f.compressor.Close()
	return nil
}
