package models

import (
	"github.com/spf13/cast"
	"strings"
	"time"
)

// CacheEntry is the locally cached copy of one exercise's metadata and cover image.
type CacheEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	ImageRemote string `json:"imageRemote,omitempty"`
	ImageLocal  string `json:"imageLocal,omitempty"`
	FetchedAt   int64  `json:"fetchedAt,omitempty"`
}

// Expired reports whether the entry is older than ttl. Entries without a
// fetchedAt stamp never expire.
func (e *CacheEntry) Expired(now time.Time, ttl time.Duration) bool {
	if e.FetchedAt == 0 {
		return false
	}
	return now.UnixMilli()-e.FetchedAt > ttl.Milliseconds()
}

// CacheEntryPatch holds the fields a Set call overwrites. Nil fields keep the
// stored value.
type CacheEntryPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageRemote *string `json:"imageRemote,omitempty"`
	ImageLocal  *string `json:"imageLocal,omitempty"`
}

func (p CacheEntryPatch) Apply(e *CacheEntry) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.ImageRemote != nil {
		e.ImageRemote = *p.ImageRemote
	}
	if p.ImageLocal != nil {
		e.ImageLocal = *p.ImageLocal
	}
}

func StringPtr(s string) *string {
	return &s
}

// NormalizeExerciseID turns a numeric or string exercise identifier into the
// string key used throughout the cache and catalog.
func NormalizeExerciseID(id interface{}) string {
	return strings.TrimSpace(cast.ToString(id))
}
