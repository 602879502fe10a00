package services

import (
	"context"
	"strings"
	"sync"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"

	json "github.com/goccy/go-json"
)

const AppLogsKey = "app_logs"

type DebugLogServiceInterface interface {
	Logs(level string) []providers.RingEntry
	Clear(ctx context.Context) error
	Export() ([]byte, error)
	BeforeFlush(ctx context.Context)
}

// DebugLogService exposes the in-memory log ring and saves it under app_logs
// whenever the store is about to be flushed. Saved entries are loaded on first
// use, after the store has been restored.
type DebugLogService struct {
	ring   *providers.LogRing
	kv     interfaces.KeyValueStoreInterface
	logger providers.Logger

	once  sync.Once
	mu    sync.Mutex
	saved uint64
}

func NewDebugLogService(ring *providers.LogRing, kv interfaces.KeyValueStoreInterface, logger providers.Logger) DebugLogServiceInterface {
	return &DebugLogService{ring: ring, kv: kv, logger: logger}
}

func (s *DebugLogService) load(ctx context.Context) {
	s.once.Do(func() { s.restore(ctx) })
}

func (s *DebugLogService) restore(ctx context.Context) {
	raw, ok, err := s.kv.Get(ctx, AppLogsKey)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Cannot read saved logs: %s", err)
		return
	}
	if !ok || raw == "" {
		return
	}
	var saved []providers.RingEntry
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		s.logger.Warnf(providers.TypeApp, "Saved logs are corrupt, starting empty: %s", err)
		return
	}
	s.ring.Restore(saved)
}

// Logs returns entries oldest first. An empty level or "all" disables filtering.
func (s *DebugLogService) Logs(level string) []providers.RingEntry {
	s.load(context.Background())
	entries := s.ring.Entries()
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" || level == "all" {
		return entries
	}
	out := make([]providers.RingEntry, 0, len(entries))
	for _, e := range entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (s *DebugLogService) Clear(ctx context.Context) error {
	s.load(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring.Clear()
	if err := s.kv.Remove(ctx, AppLogsKey); err != nil {
		return err
	}
	s.saved = s.ring.Version()
	return nil
}

func (s *DebugLogService) Export() ([]byte, error) {
	s.load(context.Background())
	return json.MarshalIndent(s.ring.Entries(), "", "  ")
}

// BeforeFlush writes the ring when it changed since the last save.
func (s *DebugLogService) BeforeFlush(ctx context.Context) {
	s.load(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	version := s.ring.Version()
	if version == s.saved {
		return
	}
	raw, err := json.Marshal(s.ring.Entries())
	if err != nil {
		return
	}
	// Logging here would feed the ring again, so failures stay silent.
	if err := s.kv.Set(ctx, AppLogsKey, string(raw)); err != nil {
		return
	}
	s.saved = version
}

// AsFlushParticipant lets the persistence scheduler save the ring before each flush.
func AsFlushParticipant(s DebugLogServiceInterface) interfaces.FlushParticipantInterface {
	return s
}
