package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"vivafit/internal/models"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// MockKV implements interfaces.DurableStoreInterface over a map.
// GetErr/SetErr/RemoveErr make the matching operation fail; FailSetKeys
// fails Set only for the listed keys. FailGets fails that many upcoming Gets.
type MockKV struct {
	mu          sync.Mutex
	Data        map[string]string
	GetErr      error
	FailGets    int
	SetErr      error
	RemoveErr   error
	FailSetKeys map[string]bool
	SetCalls    []string
	RemoveCalls []string
	Flushes     int
	Restores    int
	FlushErr    error
	RestoreErr  error
}

func NewMockKV() *MockKV {
	return &MockKV{Data: make(map[string]string)}
}

func (m *MockKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	if m.FailGets > 0 {
		m.FailGets--
		return "", false, errors.New("mock kv: get " + key + " failed")
	}
	v, ok := m.Data[key]
	return v, ok, nil
}

func (m *MockKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls = append(m.SetCalls, key)
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.FailSetKeys[key] {
		return errors.New("mock kv: set " + key + " failed")
	}
	m.Data[key] = value
	return nil
}

func (m *MockKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveCalls = append(m.RemoveCalls, key)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.Data, key)
	return nil
}

func (m *MockKV) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restores++
	return m.RestoreErr
}

func (m *MockKV) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushes++
	return m.FlushErr
}

func (m *MockKV) Close() error { return nil }

// Value returns the raw stored value for key.
func (m *MockKV) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok
}

func (m *MockKV) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockKV) SetCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, k := range m.SetCalls {
		if k == key {
			n++
		}
	}
	return n
}

// MockFileStorage implements interfaces.FileStorageInterface on a real
// directory. Download writes Body when Status is 2xx and records every call.
type MockFileStorage struct {
	mu          sync.Mutex
	Dir         string
	Status      int
	Body        []byte
	DownloadErr error
	ExistsErr   error
	DeleteErr   error
	Downloads   []string
	Deletes     []string
}

func NewMockFileStorage(dir string) *MockFileStorage {
	return &MockFileStorage{Dir: dir, Status: 200, Body: []byte("image")}
}

func (m *MockFileStorage) Root() string { return m.Dir }

func (m *MockFileStorage) Exists(_ context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	_, err := os.Stat(path)
	return err == nil, nil
}

func (m *MockFileStorage) Download(_ context.Context, url, destPath string) (interfaces.DownloadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Downloads = append(m.Downloads, url)
	if m.DownloadErr != nil {
		return interfaces.DownloadResult{}, m.DownloadErr
	}
	if m.Status >= 200 && m.Status < 300 {
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return interfaces.DownloadResult{}, err
		}
		if err := os.WriteFile(destPath, m.Body, 0o644); err != nil {
			return interfaces.DownloadResult{}, err
		}
	}
	return interfaces.DownloadResult{Status: m.Status, URI: destPath}, nil
}

func (m *MockFileStorage) Delete(_ context.Context, path string, idempotent bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes = append(m.Deletes, path)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	err := os.Remove(path)
	if err != nil && idempotent && os.IsNotExist(err) {
		return nil
	}
	return err
}

func (m *MockFileStorage) DownloadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Downloads)
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls by name.
type MockMetrics struct {
	mu     sync.Mutex
	Counts map[string]int
	Active int
}

func (m *MockMetrics) inc(name string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Counts == nil {
		m.Counts = make(map[string]int)
	}
	m.Counts[name] += n
}

func (m *MockMetrics) Count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Counts[name]
}

// Names lists every recorded metric key, sorted.
func (m *MockMetrics) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Counts))
	for k := range m.Counts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) { m.inc("requests:"+endpoint, 1) }
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    { m.inc("response_cache:hit", 1) }
func (m *MockMetrics) IncCacheMisses()                                  { m.inc("response_cache:miss", 1) }
func (m *MockMetrics) IncExerciseCacheLookups(result string)            { m.inc("exercise_cache:"+result, 1) }
func (m *MockMetrics) IncImageDownloads(outcome string)                 { m.inc("image:"+outcome, 1) }
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration)       { m.inc("persistence", 1) }
func (m *MockMetrics) IncWorkoutsStarted()                              { m.inc("workouts_started", 1) }
func (m *MockMetrics) IncWorkoutFinalizations(outcome string)           { m.inc("finalize:"+outcome, 1) }
func (m *MockMetrics) IncExerciseCacheEvictions(count int)              { m.inc("exercise_cache:evicted", count) }
func (m *MockMetrics) IncWorkoutTicks()                                 { m.inc("ticks", 1) }
func (m *MockMetrics) IncRemoteMirror(outcome string)                   { m.inc("mirror:"+outcome, 1) }
func (m *MockMetrics) SetActiveSessions(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Active = count
}

// MockMirror implements the remote MirrorStoreInterface and records inserts.
type MockMirror struct {
	mu       sync.Mutex
	Disabled bool
	Err      error
	Inserts  []MirrorInsert
}

type MirrorInsert struct {
	UserID string
	Record models.FinalizationRecord
}

func (m *MockMirror) Enabled() bool { return !m.Disabled }

func (m *MockMirror) InsertCompletedWorkout(_ context.Context, userID string, record models.FinalizationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inserts = append(m.Inserts, MirrorInsert{UserID: userID, Record: record})
	return m.Err
}

func (m *MockMirror) Close() {}

func (m *MockMirror) InsertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inserts)
}

// MockSession implements the remote SessionProviderInterface.
type MockSession struct {
	User string
}

func (m *MockSession) UserID(_ context.Context) (string, bool) {
	return m.User, strings.TrimSpace(m.User) != ""
}

// MockClock is a manually advanced clock.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (m *MockKV) FlushCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Flushes
}
