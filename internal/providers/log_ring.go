package providers

import (
	"sync"
	"time"
	"vivafit/internal/structures"

	"github.com/rs/zerolog"
)

// RingEntry is one log line kept for the debug log endpoints.
type RingEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
}

// LogRing keeps the most recent log entries in memory. It is fed by a zerolog
// hook on every category logger, so it only sees events that pass the level.
type LogRing struct {
	mu      sync.Mutex
	entries []RingEntry
	size    int
	version uint64
	now     func() time.Time
}

func NewLogRing(conf *structures.Config) *LogRing {
	size := conf.Logger.RingSize
	if size <= 0 {
		size = structures.DefaultLogRingSize
	}
	return &LogRing{size: size, now: time.Now}
}

func (r *LogRing) add(e RingEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	r.trim()
	r.version++
}

func (r *LogRing) trim() {
	if over := len(r.entries) - r.size; over > 0 {
		r.entries = append(r.entries[:0:0], r.entries[over:]...)
	}
}

// Entries returns a copy, oldest first.
func (r *LogRing) Entries() []RingEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RingEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Restore puts previously saved entries in front of the ones logged since start.
func (r *LogRing) Restore(saved []RingEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(append(make([]RingEntry, 0, len(saved)+len(r.entries)), saved...), r.entries...)
	r.trim()
	r.version++
}

func (r *LogRing) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	r.version++
}

// Version changes on every modification.
func (r *LogRing) Version() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}

func (r *LogRing) hook(t TypeEnum) zerolog.Hook {
	return zerolog.HookFunc(func(_ *zerolog.Event, level zerolog.Level, msg string) {
		r.add(RingEntry{
			Timestamp: r.now().UTC(),
			Level:     level.String(),
			Type:      t.String(),
			Message:   msg,
		})
	})
}
